package chain

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// newRPCServer answers eth_chainId with chainID, or fails with status if status is not 200.
func newRPCServer(t *testing.T, status int, chainID string, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if chainID == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": chainID})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestRPCClientFailover(t *testing.T) {
	var downHits, upHits atomic.Int32
	down := newRPCServer(t, http.StatusServiceUnavailable, "", &downHits)
	up := newRPCServer(t, http.StatusOK, "0x539", &upHits)

	client, err := NewRPCClient(t.Context(), []string{down.URL, up.URL})
	require.NoError(t, err)
	defer client.Close()

	chainID, err := client.ChainID(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1337), chainID.Int64())
	assert.Equal(t, int32(1), downHits.Load())

	// sticks with the healthy node
	_, err = client.ChainID(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(1), downHits.Load())
	assert.Equal(t, int32(2), upHits.Load())
}

func TestRPCClientLogsWithContextLogger(t *testing.T) {
	var hits atomic.Int32
	down := newRPCServer(t, http.StatusServiceUnavailable, "", &hits)
	up := newRPCServer(t, http.StatusOK, "0x539", &hits)

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).With().Str("action", "funding-xbzz").Logger().WithContext(t.Context())

	client, err := NewRPCClient(ctx, []string{down.URL + "/secret-api-key", up.URL})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.ChainID(ctx)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "failing over to next node")
	assert.Contains(t, logs.String(), `"action":"funding-xbzz"`)
	assert.NotContains(t, logs.String(), "secret-api-key")
}

func TestRPCClientDoesNotFailOverOnRPCError(t *testing.T) {
	var firstHits, secondHits atomic.Int32
	first := newRPCServer(t, http.StatusOK, "", &firstHits)
	second := newRPCServer(t, http.StatusOK, "0x539", &secondHits)

	client, err := NewRPCClient(t.Context(), []string{first.URL, second.URL})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.ChainID(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
	assert.Equal(t, int32(0), secondHits.Load())
}

func TestRPCClientAllNodesDown(t *testing.T) {
	var hits atomic.Int32
	a := newRPCServer(t, http.StatusBadGateway, "", &hits)
	b := newRPCServer(t, http.StatusTooManyRequests, "", &hits)

	client, err := NewRPCClient(t.Context(), []string{a.URL, b.URL})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.ChainID(t.Context())
	require.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestNewRPCClientRequiresURL(t *testing.T) {
	_, err := NewRPCClient(t.Context(), nil)
	require.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://rpc.example.com", redactURL("https://user:pw@rpc.example.com/v3/secretkey?x=1"))
	assert.Equal(t, "<invalid url>", redactURL("not a url"))
}
