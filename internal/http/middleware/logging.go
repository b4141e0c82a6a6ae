package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const loggerKey = "gateway.logger"

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\-. ]{7,}\d`)
	uuidRedact   = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
)

// redact masks PII-shaped substrings (emails, phone numbers, UUIDs) before a
// value reaches the log sink.
func redact(s string) string {
	s = emailPattern.ReplaceAllString(s, "[redacted-email]")
	s = uuidRedact.ReplaceAllString(s, "[redacted-uuid]")
	s = phonePattern.ReplaceAllString(s, "[redacted-phone]")
	return s
}

// Logging stashes a request-scoped *zerolog.Logger (tagged with the
// correlation ID) in the Gin context and emits one access-log event per
// request with a redacted path (the query string is not logged).
func Logging(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := StateFrom(c)
		scoped := base.With().Str("correlation_id", state.CorrelationID).Logger()
		c.Set(loggerKey, &scoped)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		scoped.Info().
			Str("method", c.Request.Method).
			Str("path", redact(c.Request.URL.Path)).
			Int("status", c.Writer.Status()).
			Dur("duration", elapsed).
			Str("client_ip", c.ClientIP()).
			Msg("request_handled")
	}
}

// LoggerFrom retrieves the request-scoped logger stashed by Logging, falling
// back to a disabled logger if called before Logging has run.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*zerolog.Logger); ok {
			return l
		}
	}
	disabled := zerolog.Nop()
	return &disabled
}

// Recovery recovers from panics in downstream handlers, logs them, and
// responds with a synthetic 502 so a single bad handler never crashes the
// process or leaks a stack trace to the caller.
func Recovery(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				LoggerFrom(c).Error().Interface("panic", r).Msg("panic_recovered")
				c.Writer.Header().Set("Content-Type", "application/json")
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"detail": "Internal gateway error"})
			}
		}()
		c.Next()
	}
}
