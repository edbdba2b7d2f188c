package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/KirkDiggler/tenzies/internal/common/uuid"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	"github.com/gin-gonic/gin"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// getLimiter returns the rate limiter for a client key, usually the client IP
func (h *Handler) getLimiter(key string) *rate.Limiter {
	h.limiterMu.Lock()
	defer h.limiterMu.Unlock()
	if lim, ok := h.limiterMap[key]; ok {
		return lim
	}

	if key == "" {
		logWarn("Rate limiter key is empty")
	}
	lim := rate.NewLimiter(h.rateLimit, h.rateLimitBurst)
	h.limiterMap[key] = lim
	return lim
}

// rateLimitMiddleware enforces per-client rate limiting on state changing routes
func (h *Handler) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !h.getLimiter(key).Allow() {
			if isHTMX(c) {
				c.Header("HX-Trigger", "rate-limit-exceeded")
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": h.rateLimitedMessage(c.Request.Context())})
			return
		}
		c.Next()
	}
}

// rateLimitedMessage asks the messaging service for the 429 text
func (h *Handler) rateLimitedMessage(ctx context.Context) string {
	output, err := h.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		ErrorType: messaging.ErrorTypeRateLimited,
	})
	if err != nil {
		logWarn("Error getting rate limit message: %v", err)
		return "Too many requests. Please slow down."
	}
	return output.Message
}

// requestIDMiddleware tags every request with an X-Request-Id
func requestIDMiddleware(ids uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = ids.NewUUID()
		}
		ctx := context.WithValue(c.Request.Context(), requestIDKey, reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", reqID)
		c.Next()
	}
}

// cacheHeadersMiddleware lets browsers cache static assets in production.
// Pages and fragments are never cached.
func (h *Handler) cacheHeadersMiddleware() gin.HandlerFunc {
	static := cachecontrol.New(cachecontrol.Config{
		Public: true,
		MaxAge: cachecontrol.Duration(h.staticCacheAge),
	})
	noStore := cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})

	return func(c *gin.Context) {
		if h.isProduction && strings.HasPrefix(c.Request.URL.Path, "/static/") {
			static(c)
			c.Header("Vary", "Accept-Encoding")
			return
		}
		noStore(c)
	}
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func requestID(c *gin.Context) string {
	id, _ := c.Request.Context().Value(requestIDKey).(string)
	return id
}
