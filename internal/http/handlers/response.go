// Package handlers implements the gateway's own in-process HTTP endpoints:
// operational surfaces (root, API info, health, docs) and composite endpoints
// that fan out to backends via the aggregator or health rollup. A path the
// service registry resolves to a backend never reaches this package — the
// Proxy middleware intercepts it first.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// fail writes the gateway's standard error envelope. Every non-2xx response
// this package emits uses this shape, matching the one the Proxy and
// RateLimit middleware already write on the wire.
func fail(c *gin.Context, status int, detail string) {
	c.Writer.Header().Set("Content-Type", "application/json")
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// Fail is the exported variant of fail, for callers outside this package
// (route fallbacks registered by the router).
func Fail(c *gin.Context, status int, detail string) { fail(c, status, detail) }

func ok(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
