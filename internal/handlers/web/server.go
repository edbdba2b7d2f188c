// Package web serves the Tenzies board over HTTP with HTMX fragments.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/KirkDiggler/tenzies/internal/common/clock"
	"github.com/KirkDiggler/tenzies/internal/common/uuid"
	gameService "github.com/KirkDiggler/tenzies/internal/services/game"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html static/*
var assets embed.FS

const (
	SessionCookieName = "tenzies_session"
	NameCookieName    = "tenzies_name"

	RouteHome = "/"
)

// Config holds configuration for the web handler
type Config struct {
	GameService      gameService.Service
	MessagingService messaging.Service
	UUIDGenerator    uuid.UUID
	Clock            clock.Clock

	IsProduction   bool
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Handler serves the web front end
type Handler struct {
	gameService      gameService.Service
	messagingService messaging.Service
	uuidGenerator    uuid.UUID
	clock            clock.Clock

	isProduction   bool
	cookieMaxAge   time.Duration
	staticCacheAge time.Duration
	rateLimit      rate.Limit
	rateLimitBurst int
	startTime      time.Time

	limiterMu  sync.Mutex
	limiterMap map[string]*rate.Limiter
}

// New creates a new web handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.UUIDGenerator == nil {
		return nil, errors.New("UUID generator cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		return nil, errors.New("rate limit must allow at least one request")
	}

	return &Handler{
		gameService:      cfg.GameService,
		messagingService: cfg.MessagingService,
		uuidGenerator:    cfg.UUIDGenerator,
		clock:            cfg.Clock,
		isProduction:     cfg.IsProduction,
		cookieMaxAge:     cfg.CookieMaxAge,
		staticCacheAge:   cfg.StaticCacheAge,
		rateLimit:        rate.Limit(cfg.RateLimitRPS),
		rateLimitBurst:   cfg.RateLimitBurst,
		startTime:        cfg.Clock.Now(),
		limiterMap:       make(map[string]*rate.Limiter),
	}, nil
}

// Router builds the gin engine with every route and middleware
func (h *Handler) Router() (*gin.Engine, error) {
	templates, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(requestIDMiddleware(h.uuidGenerator))
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png"}),
		ginGzip.WithExcludedPaths([]string{"/healthz"})))
	router.Use(h.cacheHeadersMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.SetHTMLTemplate(templates)
	router.StaticFS("/static", http.FS(static))

	router.GET(RouteHome, h.homeHandler)
	router.GET("/game-state", h.gameStateHandler)
	router.POST("/roll", h.rateLimitMiddleware(), h.rollHandler)
	router.POST("/hold/:id", h.rateLimitMiddleware(), h.holdHandler)
	router.POST("/abandon", h.rateLimitMiddleware(), h.abandonHandler)
	router.GET("/stats", h.statsHandler)
	router.GET("/leaderboard", h.leaderboardHandler)
	router.GET("/healthz", h.healthHandler)

	return router, nil
}
