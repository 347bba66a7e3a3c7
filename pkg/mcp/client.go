// Package mcp connects to configured MCP (Model Context Protocol) servers and
// exposes their tools to the reasoning loop.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/models"
)

// clientName identifies this process in the MCP handshake.
const clientName = "drover"

// Client manages MCP SDK sessions for multiple servers.
// Thread-safe: sessions may be used concurrently by parallel tool calls.
type Client struct {
	registry *config.MCPServerRegistry

	mu            sync.RWMutex
	sessions      map[string]*mcpsdk.ClientSession
	failedServers map[string]string

	// Tool cache, populated on first ListTools per server and cleared on
	// session recreation.
	toolCache   map[string][]*mcpsdk.Tool
	toolCacheMu sync.RWMutex

	// Per-server mutex serializing session (re)creation.
	reinitMu sync.Map

	logger *slog.Logger
}

// NewClient creates a client over the given server registry. No connections
// are opened until Initialize.
func NewClient(registry *config.MCPServerRegistry) *Client {
	return &Client{
		registry:      registry,
		sessions:      make(map[string]*mcpsdk.ClientSession),
		failedServers: make(map[string]string),
		toolCache:     make(map[string][]*mcpsdk.Tool),
		logger:        slog.Default(),
	}
}

// Initialize connects to the listed servers. Servers that fail to connect are
// recorded in FailedServers rather than aborting: a task can proceed with the
// tools that are reachable.
func (c *Client) Initialize(ctx context.Context, serverIDs []string) {
	for _, serverID := range serverIDs {
		if err := c.InitializeServer(ctx, serverID); err != nil {
			c.mu.Lock()
			c.failedServers[serverID] = err.Error()
			c.mu.Unlock()
			c.logger.Warn("MCP server failed to initialize", "server", serverID, "error", err)
		}
	}
}

// InitializeServer connects to a single server. Returns nil if already
// connected.
func (c *Client) InitializeServer(ctx context.Context, serverID string) error {
	muI, _ := c.reinitMu.LoadOrStore(serverID, &sync.Mutex{})
	mu := muI.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	return c.initializeServerLocked(ctx, serverID)
}

// initializeServerLocked does the actual connect. Caller holds the per-server
// reinit mutex.
func (c *Client) initializeServerLocked(ctx context.Context, serverID string) error {
	c.mu.RLock()
	if _, exists := c.sessions[serverID]; exists {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	serverCfg, err := c.registry.Get(serverID)
	if err != nil {
		return fmt.Errorf("server %q not found in registry: %w", serverID, err)
	}

	transport, err := createTransport(serverCfg.Transport)
	if err != nil {
		return fmt.Errorf("failed to create transport for %q: %w", serverID, err)
	}

	initCtx, cancel := context.WithTimeout(ctx, InitTimeout)
	defer cancel()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: clientName, Version: "1"}, nil)
	session, err := client.Connect(initCtx, transport, nil)
	if err != nil {
		// Close the transport if possible so stdio child processes don't leak.
		if closer, ok := transport.(io.Closer); ok {
			_ = closer.Close()
		}
		return fmt.Errorf("failed to connect to %q: %w", serverID, err)
	}

	c.mu.Lock()
	c.sessions[serverID] = session
	delete(c.failedServers, serverID)
	c.mu.Unlock()

	c.logger.Info("MCP server connected", "server", serverID)
	return nil
}

// ListTools returns the tool descriptors advertised by a server.
func (c *Client) ListTools(ctx context.Context, serverID string) ([]models.ToolDescriptor, error) {
	tools, err := c.listToolsRaw(ctx, serverID)
	if err != nil {
		return nil, err
	}

	out := make([]models.ToolDescriptor, 0, len(tools))
	for _, tool := range tools {
		var schema json.RawMessage
		if tool.InputSchema != nil {
			if raw, err := json.Marshal(tool.InputSchema); err == nil {
				schema = raw
			}
		}
		out = append(out, models.ToolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			Schema:      schema,
			ServerID:    serverID,
		})
	}
	return out, nil
}

// ListAllTools returns descriptors from every connected server. Partial
// results are returned when some servers fail; an error only when all do.
func (c *Client) ListAllTools(ctx context.Context) ([]models.ToolDescriptor, error) {
	c.mu.RLock()
	serverIDs := make([]string, 0, len(c.sessions))
	for id := range c.sessions {
		serverIDs = append(serverIDs, id)
	}
	c.mu.RUnlock()

	var (
		result  []models.ToolDescriptor
		lastErr error
		failed  int
	)
	for _, id := range serverIDs {
		tools, err := c.ListTools(ctx, id)
		if err != nil {
			lastErr = err
			failed++
			c.logger.Warn("Failed to list tools from MCP server", "server", id, "error", err)
			continue
		}
		result = append(result, tools...)
	}

	if failed == len(serverIDs) && lastErr != nil {
		return nil, fmt.Errorf("all servers failed to list tools: %w", lastErr)
	}
	return result, nil
}

func (c *Client) listToolsRaw(ctx context.Context, serverID string) ([]*mcpsdk.Tool, error) {
	// Lock ordering: never acquire c.mu while holding toolCacheMu.
	c.toolCacheMu.RLock()
	if cached, ok := c.toolCache[serverID]; ok {
		c.toolCacheMu.RUnlock()
		return cached, nil
	}
	c.toolCacheMu.RUnlock()

	c.mu.RLock()
	session, exists := c.sessions[serverID]
	c.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("no session for server %q", serverID)
	}

	opCtx, cancel := context.WithTimeout(ctx, OperationTimeout)
	defer cancel()

	result, err := session.ListTools(opCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tools from %q: %w", serverID, err)
	}

	tools := result.Tools
	if tools == nil {
		tools = []*mcpsdk.Tool{}
	}
	c.toolCacheMu.Lock()
	c.toolCache[serverID] = tools
	c.toolCacheMu.Unlock()

	return tools, nil
}

// CallTool executes a tool on the given server and flattens the result to
// text. One retry with a fresh session is attempted on transport failures.
func (c *Client) CallTool(ctx context.Context, serverID, toolName string, args map[string]any) (string, bool, error) {
	params := &mcpsdk.CallToolParams{Name: toolName, Arguments: args}

	result, err := c.callToolOnce(ctx, serverID, params)
	if err != nil {
		action := ClassifyError(err)
		if action == NoRetry {
			return "", false, err
		}

		c.logger.Info("MCP call failed, retrying",
			"server", serverID, "tool", toolName, "error", err)

		backoff := RetryBackoffMin + time.Duration(rand.Int64N(int64(RetryBackoffMax-RetryBackoffMin)))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", false, ctx.Err()
		}

		if action == RetryNewSession {
			if err := c.recreateSession(ctx, serverID); err != nil {
				return "", false, fmt.Errorf("session recreation failed for %q: %w", serverID, err)
			}
		}

		result, err = c.callToolOnce(ctx, serverID, params)
		if err != nil {
			return "", false, fmt.Errorf("retry failed for %q.%s: %w", serverID, toolName, err)
		}
	}

	return extractTextContent(result), result.IsError, nil
}

func (c *Client) callToolOnce(ctx context.Context, serverID string, params *mcpsdk.CallToolParams) (*mcpsdk.CallToolResult, error) {
	c.mu.RLock()
	session, exists := c.sessions[serverID]
	c.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("no session for server %q", serverID)
	}

	opCtx, cancel := context.WithTimeout(ctx, OperationTimeout)
	defer cancel()

	return session.CallTool(opCtx, params)
}

// recreateSession tears down and reconnects a server session.
func (c *Client) recreateSession(ctx context.Context, serverID string) error {
	muI, _ := c.reinitMu.LoadOrStore(serverID, &sync.Mutex{})
	mu := muI.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	c.mu.Lock()
	if session, exists := c.sessions[serverID]; exists {
		_ = session.Close()
		delete(c.sessions, serverID)
	}
	c.mu.Unlock()

	c.toolCacheMu.Lock()
	delete(c.toolCache, serverID)
	c.toolCacheMu.Unlock()

	reinitCtx, cancel := context.WithTimeout(ctx, ReinitTimeout)
	defer cancel()

	return c.initializeServerLocked(reinitCtx, serverID)
}

// Close shuts down all sessions.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for id, session := range c.sessions {
		if err := session.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close session %q: %w", id, err)
		}
	}
	c.sessions = make(map[string]*mcpsdk.ClientSession)
	c.failedServers = make(map[string]string)

	c.toolCacheMu.Lock()
	c.toolCache = make(map[string][]*mcpsdk.Tool)
	c.toolCacheMu.Unlock()

	return firstErr
}

// FailedServers returns servers that failed to initialize, by error message.
func (c *Client) FailedServers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]string, len(c.failedServers))
	for k, v := range c.failedServers {
		result[k] = v
	}
	return result
}

// extractTextContent flattens a tool result's content blocks to text.
// Non-text blocks are noted by type rather than dropped silently.
func extractTextContent(result *mcpsdk.CallToolResult) string {
	if result == nil {
		return ""
	}
	var parts []string
	for _, content := range result.Content {
		switch block := content.(type) {
		case *mcpsdk.TextContent:
			parts = append(parts, block.Text)
		case *mcpsdk.ImageContent:
			parts = append(parts, fmt.Sprintf("[image content: %s]", block.MIMEType))
		default:
			parts = append(parts, fmt.Sprintf("[%T content]", content))
		}
	}
	return strings.Join(parts, "\n")
}
