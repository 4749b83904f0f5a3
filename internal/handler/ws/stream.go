// Package ws streams server-side updates to browsers over WebSocket.
// Connections are push-only: anything the client sends is read and discarded
// so close frames and dead peers are noticed.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Streamer upgrades requests and pumps JSON frames to the client
type Streamer struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewStreamer creates a streamer accepting the given origins.
// "*" accepts any origin; requests without an Origin header are always accepted.
func NewStreamer(origins []string, logger *slog.Logger) *Streamer {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return &Streamer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		logger: logger,
	}
}

// Stream upgrades the connection and writes every value received from src
// as a JSON text frame. It returns when src closes, the client goes away or
// ctx is done. The upgrade failure has already been answered when an error is
// returned before any frame is written.
func Stream[T any](ctx context.Context, s *Streamer, w http.ResponseWriter, r *http.Request, src <-chan T) error {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	gone := make(chan struct{})
	go readPump(conn, gone, s.logger)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case v, ok := <-src:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			if err := writeJSON(conn, v); err != nil {
				return err
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-gone:
			return nil
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return nil
		}
	}
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	wr, err := conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if _, err := wr.Write(payload); err != nil {
		wr.Close()
		return err
	}
	return wr.Close()
}

// readPump drains client frames and closes gone when the peer disconnects
func readPump(conn *websocket.Conn, gone chan<- struct{}, logger *slog.Logger) {
	defer close(gone)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}
	}
}
