package ws

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	N int `json:"n"`
}

func TestStream_WritesFramesUntilSourceCloses(t *testing.T) {
	s := NewStreamer([]string{"*"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src := make(chan frame, 3)
		src <- frame{N: 1}
		src <- frame{N: 2}
		close(src)
		_ = Stream(context.Background(), s, w, r, src)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, 1, got.N)
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, 2, got.N)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestStream_RejectsForeignOrigin(t *testing.T) {
	s := NewStreamer([]string{"http://localhost:3000"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = Stream(context.Background(), s, w, r, make(chan frame))
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
