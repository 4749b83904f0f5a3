package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"lumina/internal/config"
	"lumina/internal/fixtures"
	"lumina/internal/handler"
	"lumina/internal/handler/sse"
	"lumina/internal/httputil"
	"lumina/internal/service"
	"lumina/internal/service/simulate"
)

const shutdownGrace = 10 * time.Second

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"session_ttl", cfg.SessionTTL,
		"feed_interval", cfg.Feed.Interval,
	)

	set, err := fixtures.Load()
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	services, err := service.SetupServices(cfg, set, simulate.NewRealClock(), logger)
	if err != nil {
		log.Fatalf("Failed to setup services: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reap idle page sessions
	go services.Sessions.Run(ctx, time.Minute)

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	var h http.Handler = handler.NewRouter(&handler.Services{
		Catalog:  services.Catalog,
		Search:   services.Search,
		Insights: services.Insights,
		Sessions: services.Sessions,
	}, handler.RouterConfig{
		SSE:         sse.NewConfig(cfg.SSEKeepAlive),
		CORSOrigins: origins,
	}, logger)

	// CORS wraps everything so pre-flight requests never reach the session check
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", httputil.SessionHeader, "Last-Event-ID"},
		ExposedHeaders:   []string{httputil.SessionHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE and WebSocket streams
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	logger.Info("listening", "addr", ln.Addr().String())
	if err := serve(ctx, server, ln, services.Sessions.CloseAll, logger); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// serve runs server on ln until ctx is done, then tears the sessions down and
// drains in-flight requests for up to shutdownGrace before returning
func serve(ctx context.Context, server *http.Server, ln net.Listener, closeSessions func(), logger *slog.Logger) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		closeSessions()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}
