package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/tenzies/internal/bootstrap"
	"github.com/KirkDiggler/tenzies/internal/config"
	"github.com/KirkDiggler/tenzies/internal/handlers/web"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()

	handler, err := web.New(&web.Config{
		GameService:      app.GameService,
		MessagingService: app.MessagingService,
		UUIDGenerator:    app.UUIDGenerator,
		Clock:            app.Clock,
		IsProduction:     cfg.IsProduction(),
		CookieMaxAge:     cfg.CookieMaxAge,
		StaticCacheAge:   cfg.StaticCacheAge,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
	})
	if err != nil {
		log.Fatalf("Failed to create web handler: %v", err)
	}

	router, err := handler.Router()
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	go app.RunPruner(ctx, cfg.PruneInterval, cfg.SessionTimeout)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Println("Shutdown signal received, shutting down server gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("Server starting on http://localhost%s", cfg.Addr())
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	log.Println("Server shutdown complete")
}
