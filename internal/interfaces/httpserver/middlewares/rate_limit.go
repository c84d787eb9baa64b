package middlewares

import (
	"net"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/infrastructure/metrics"
	"github.com/maisonbelle/salon-site/internal/infrastructure/ratelimit"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// RateLimitMiddleware throttles requests per client IP within scope. Limiter
// backend errors let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, scope string, logger zerolog.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := scope + ":" + rateKey(c)
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable; allowing request")
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
			c.Header("Retry-After", "60")
			responses.HandleNewError(c, platformerrors.ErrorTypeTooManyRequests, "too many requests, please try again later", "7f2d9c41-8a3e-4b65-b0d7-1e6c4a9f2b38")
			return
		}
		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	raw := c.ClientIP()
	if ip := net.ParseIP(raw); ip != nil {
		return ip.String()
	}
	if raw != "" {
		return raw
	}
	return "anonymous"
}
