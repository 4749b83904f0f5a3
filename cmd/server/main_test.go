package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_DrainsInFlightRequests(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closed atomic.Bool
	served := make(chan error, 1)
	go func() {
		served <- serve(ctx, server, ln, func() { closed.Store(true) }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	<-entered
	cancel()

	select {
	case <-served:
		t.Fatal("serve returned before the in-flight request finished")
	case <-time.After(100 * time.Millisecond):
	}
	assert.True(t, closed.Load(), "sessions are torn down first")

	close(release)
	assert.Equal(t, http.StatusOK, <-status)

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after draining")
	}
}
