package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudsound/api-gateway/internal/auth"
	"github.com/cloudsound/api-gateway/internal/metrics"
)

// Auth is the non-fatal pipeline-stage authentication middleware: it
// attempts token verification and stamps the principal on success, but a
// failure merely leaves the request unauthenticated. Public-route prefixes
// bypass the attempt entirely. Route-level guards (RequireUser/RequireAdmin)
// are what turn a missing principal into a rejection.
func Auth(verifier *auth.Verifier, m *metrics.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := StateFrom(c)

		if MatchesAny(c.Request.URL.Path, PublicPrefixes) {
			c.Next()
			return
		}

		principal, err := verifier.Verify(c.GetHeader("Authorization"))
		if err != nil {
			if m != nil {
				m.RecordAuthAttempt(false)
			}
			c.Next()
			return
		}

		if m != nil {
			m.RecordAuthAttempt(true)
		}
		state.Principal = principal
		state.IsAuthenticated = true
		c.Next()
	}
}

// RequireUser guards a handler behind a valid principal. Unlike the
// pipeline-stage Auth middleware, a failure here is a hard 401 rejection.
func RequireUser(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := StateFrom(c)
		if state.IsAuthenticated {
			h(c)
			return
		}

		if v, ok := c.Get(verifierKey); ok {
			if verifier, ok := v.(*auth.Verifier); ok {
				principal, err := verifier.Verify(c.GetHeader("Authorization"))
				if err == nil {
					state.Principal = principal
					state.IsAuthenticated = true
					h(c)
					return
				}
			}
		}

		unauthorized(c)
	}
}

// RequireAdmin guards a handler behind a valid principal with the admin
// role; it wraps RequireUser so an unauthenticated caller also gets 401.
func RequireAdmin(h gin.HandlerFunc) gin.HandlerFunc {
	return RequireUser(func(c *gin.Context) {
		state := StateFrom(c)
		if !state.Principal.IsAdmin() {
			c.Writer.Header().Set("Content-Type", "application/json")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Forbidden"})
			return
		}
		h(c)
	})
}

func unauthorized(c *gin.Context) {
	c.Writer.Header().Set("WWW-Authenticate", "Bearer")
	c.Writer.Header().Set("Content-Type", "application/json")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
}

// verifierKey is where RegisterRoutes stashes the shared Verifier so
// RequireUser can re-verify a token when the pipeline-stage Auth middleware
// was bypassed (public route) but a guarded handler still needs identity.
const verifierKey = "gateway.verifier"

// WithVerifier stores the verifier in the Gin context for RequireUser to
// find. Call once per request, early in the chain.
func WithVerifier(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(verifierKey, verifier)
		c.Next()
	}
}
