package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cloudsound/api-gateway/internal/metrics"
	"github.com/cloudsound/api-gateway/internal/ratelimit"
)

// RateLimit enforces the per-client token bucket. Exempt prefixes bypass it
// entirely. On deny it short-circuits with 429 and the rate-limit headers;
// on allow it sets X-RateLimit-Limit/-Remaining on the response before the
// downstream handler runs, so they are present on whatever it writes.
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		if MatchesAny(c.Request.URL.Path, ExemptPrefixes) {
			c.Next()
			return
		}

		state := StateFrom(c)
		subject := ""
		if state.IsAuthenticated {
			subject = state.Principal.Subject
		}
		key := ratelimit.ClientKey(subject, c.GetHeader("X-Forwarded-For"), c.ClientIP())

		allowed, info := limiter.Check(key)

		if !allowed {
			clientType := "ip"
			if state.IsAuthenticated {
				clientType = "user"
			}
			if m != nil {
				m.RecordRateLimitHit(clientType)
			}

			h := c.Writer.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			h.Set("X-RateLimit-Reset", strconv.Itoa(info.Reset))
			h.Set("Retry-After", strconv.Itoa(info.Reset))
			h.Set("Content-Type", "application/json")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": "Rate limit exceeded. Try again later.",
			})
			return
		}

		// Gin writes response headers as soon as the handler calls
		// WriteHeader/JSON, so these must be set before the downstream
		// handler runs rather than after.
		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

		c.Next()
	}
}
