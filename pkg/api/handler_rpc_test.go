package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callRPC exercises the handler with a raw body. Only validation paths are
// tested here; happy paths need a real service and are covered by the
// integration tests.
func callRPC(t *testing.T, body string) rpcResponse {
	t.Helper()
	s := &Server{}
	e := echo.New()
	e.POST("/v1/agents/:agent_id/rpc", s.rpcHandler)

	req := httptest.NewRequest(http.MethodPost, "/v1/agents/research/rpc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRPCHandler_Validation(t *testing.T) {
	t.Run("malformed JSON", func(t *testing.T) {
		resp := callRPC(t, "{not json")
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcParseError, resp.Error.Code)
	})

	t.Run("wrong jsonrpc version", func(t *testing.T) {
		resp := callRPC(t, `{"jsonrpc":"1.0","id":1,"method":"tasks/get"}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcInvalidRequest, resp.Error.Code)
	})

	t.Run("missing method", func(t *testing.T) {
		resp := callRPC(t, `{"jsonrpc":"2.0","id":1}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcInvalidRequest, resp.Error.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		resp := callRPC(t, `{"jsonrpc":"2.0","id":1,"method":"tasks/unknown"}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcMethodNotFound, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "tasks/unknown")
	})

	t.Run("message/send without text parts", func(t *testing.T) {
		resp := callRPC(t, `{"jsonrpc":"2.0","id":1,"method":"message/send",`+
			`"params":{"message":{"role":"user","parts":[]}}}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcInvalidParams, resp.Error.Code)
	})

	t.Run("tasks/send alias validates like message/send", func(t *testing.T) {
		resp := callRPC(t, `{"jsonrpc":"2.0","id":1,"method":"tasks/send",`+
			`"params":{"message":{"role":"user","parts":[]}}}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcInvalidParams, resp.Error.Code)
	})

	t.Run("tasks/get without id", func(t *testing.T) {
		resp := callRPC(t, `{"jsonrpc":"2.0","id":1,"method":"tasks/get","params":{}}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcInvalidParams, resp.Error.Code)
	})

	t.Run("tasks/cancel without id", func(t *testing.T) {
		resp := callRPC(t, `{"jsonrpc":"2.0","id":1,"method":"tasks/cancel","params":{}}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcInvalidParams, resp.Error.Code)
	})

	t.Run("id echoed back on errors", func(t *testing.T) {
		resp := callRPC(t, `{"jsonrpc":"2.0","id":"req-7","method":"nope"}`)
		assert.Equal(t, "req-7", resp.ID)
	})
}
