package mcp

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"
)

// RecoveryAction determines how to handle an MCP operation failure.
type RecoveryAction int

const (
	// NoRetry — the error is not recoverable (bad request, auth failure, timeout).
	NoRetry RecoveryAction = iota
	// RetrySameSession — transient error, retry with the existing session.
	RetrySameSession
	// RetryNewSession — transport failure, recreate the session and retry.
	RetryNewSession
)

const (
	// InitTimeout is the per-server initialization deadline (transport + handshake).
	InitTimeout = 30 * time.Second

	// ReinitTimeout is the deadline for recreating a session during recovery.
	ReinitTimeout = 10 * time.Second

	// OperationTimeout is the per-call deadline for CallTool and ListTools.
	// The activity-level tool timeout is the hard ceiling above this.
	OperationTimeout = 45 * time.Second

	// RetryBackoffMin / RetryBackoffMax bound the jittered backoff before a retry.
	RetryBackoffMin = 250 * time.Millisecond
	RetryBackoffMax = 750 * time.Millisecond
)

// ClassifyError determines the recovery action for an MCP operation error.
func ClassifyError(err error) RecoveryAction {
	if err == nil {
		return NoRetry
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NoRetry
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NoRetry // could be a legitimately slow server
		}
		return RetryNewSession
	}

	if isConnectionError(err) {
		return RetryNewSession
	}

	// JSON-RPC protocol errors are client-side and not retryable.
	if isProtocolError(err) {
		return NoRetry
	}

	return NoRetry
}

func isConnectionError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"connection closed",
		"no such host",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

func isProtocolError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"method not found",
		"invalid params",
		"invalid request",
		"parse error",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
