package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestRouter(t *testing.T, router *WSRouter) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		router.ServeConn(context.Background(), conn)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestRouting(t *testing.T) {
	router := New()
	router.Handle("echo", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		assert.Equal(t, "echo", GetMessageTypeFromCtx(ctx))
		return conn.WriteJSON(map[string]any{"echoed": json.RawMessage(payload)})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "echo", "payload": map[string]string{"hello": "world"}}))

	var reply struct {
		Echoed map[string]string `json:"echoed"`
	}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "world", reply.Echoed["hello"])
}

func TestUnknownMessageType(t *testing.T) {
	router := New()
	router.Handle("known", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		return conn.WriteJSON(map[string]string{"ok": "yes"})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "bogus"}))

	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "unknown message type", reply["error"])

	// the loop keeps serving after an unknown type
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "known"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "yes", reply["ok"])
}

func TestHandlerErrorDoesNotCloseConn(t *testing.T) {
	router := New()
	router.Handle("boom", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		return errors.New("boom")
	})
	router.Handle("ping", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		return conn.WriteJSON(map[string]string{"pong": "pong"})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "boom"}))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))

	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "pong", reply["pong"])
}

func TestMiddlewareOrder(t *testing.T) {
	var calls []string

	router := New()
	router.Use(func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			calls = append(calls, "outer")
			return next(ctx, conn, payload)
		}
	})
	router.Use(func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			calls = append(calls, "inner")
			return next(ctx, conn, payload)
		}
	})
	router.Handle("noop", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		calls = append(calls, "handler")
		return conn.WriteJSON(map[string]string{"done": "done"})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "noop"}))
	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))

	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}
