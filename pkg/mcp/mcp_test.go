package mcp

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/config"
)

func TestCreateTransport_Stdio(t *testing.T) {
	transport, err := createTransport(config.TransportConfig{
		Type:    config.TransportStdio,
		Command: "uvx",
		Args:    []string{"mcp-server-fetch"},
		Env:     map[string]string{"FETCH_TIMEOUT": "30"},
	})
	require.NoError(t, err)
	require.NotNil(t, transport)

	_, err = createTransport(config.TransportConfig{Type: config.TransportStdio})
	assert.ErrorContains(t, err, "requires command")
}

func TestCreateTransport_HTTPAndSSE(t *testing.T) {
	transport, err := createTransport(config.TransportConfig{
		Type:        config.TransportHTTP,
		URL:         "http://localhost:3001/mcp",
		BearerToken: "tok",
		Timeout:     10,
	})
	require.NoError(t, err)
	require.NotNil(t, transport)

	_, err = createTransport(config.TransportConfig{Type: config.TransportSSE})
	assert.ErrorContains(t, err, "requires url")

	_, err = createTransport(config.TransportConfig{Type: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unsupported transport type")
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, NoRetry, ClassifyError(nil))
	assert.Equal(t, NoRetry, ClassifyError(context.Canceled))
	assert.Equal(t, NoRetry, ClassifyError(context.DeadlineExceeded))

	assert.Equal(t, RetryNewSession, ClassifyError(io.EOF))
	assert.Equal(t, RetryNewSession, ClassifyError(errors.New("dial tcp: connection refused")))
	assert.Equal(t, RetryNewSession, ClassifyError(errors.New("write: broken pipe")))

	assert.Equal(t, NoRetry, ClassifyError(errors.New("jsonrpc: method not found")))
	assert.Equal(t, NoRetry, ClassifyError(errors.New("something unexpected")))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
}

func TestTruncateResult(t *testing.T) {
	short := "small output"
	assert.Equal(t, short, TruncateResult(short, 100))

	// 100 lines of 40 chars each, limit 10 tokens (~40 chars).
	long := strings.Repeat(strings.Repeat("x", 39)+"\n", 100)
	out := TruncateResult(long, 10)
	assert.Less(t, len(out), len(long))
	assert.Contains(t, out, "[TRUNCATED")
	// Cut lands on a line boundary.
	body := out[:strings.Index(out, "\n\n[TRUNCATED")]
	assert.False(t, strings.HasSuffix(body, "x\nx"), "lines stay whole")
}

func TestTruncateResult_DefaultLimit(t *testing.T) {
	long := strings.Repeat("y", DefaultMaxResultTokens*charsPerToken+100)
	out := TruncateResult(long, 0)
	assert.Contains(t, out, "[TRUNCATED")
}

func TestClient_FailedServersTracksUnreachable(t *testing.T) {
	registry := config.NewMCPServerRegistry(map[string]*config.MCPServerConfig{
		"dead": {Transport: config.TransportConfig{
			Type: config.TransportHTTP,
			URL:  "http://127.0.0.1:1/mcp",
		}},
	})
	client := NewClient(registry)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), InitTimeout)
	defer cancel()
	client.Initialize(ctx, []string{"dead", "unknown"})

	failed := client.FailedServers()
	assert.Contains(t, failed, "dead")
	assert.Contains(t, failed, "unknown")
}
