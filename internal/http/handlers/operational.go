package handlers

import (
	"github.com/gin-gonic/gin"
)

// Root describes the gateway itself.
func Root(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, gin.H{
			"service": "CloudSound API Gateway",
			"version": d.Config.AppVersion,
			"docs":    "/docs",
			"health":  "/health",
		})
	}
}

// APIInfo describes the versioned API surface.
func APIInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, gin.H{
			"version":  "v1",
			"base_url": "/api/v1",
			"endpoints": gin.H{
				"radio":    "/api/v1/radio",
				"concerts": "/api/v1/concerts",
				"search":   "/api/v1/search",
				"auth":     "/api/v1/auth",
				"discover": "/api/v1/discover",
				"events":   "/api/v1/events",
				"admin":    "/api/v1/admin",
			},
		})
	}
}

// Health is the liveness probe: the process answers, nothing more is asked.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, gin.H{"status": "ok"})
	}
}

// Ready is the readiness probe. The gateway holds no external connections of
// its own (backends are contacted lazily per-request), so readiness tracks
// liveness exactly.
func Ready() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, gin.H{"status": "ready"})
	}
}
