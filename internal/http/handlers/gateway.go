package handlers

import (
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/cloudsound/api-gateway/internal/http/middleware"
)

// Services lists the backend services the registry knows about.
func Services(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := d.Registry.Services()
		names := make([]string, 0, len(services))
		for name := range services {
			names = append(names, name)
		}
		sort.Strings(names)

		ok(c, gin.H{
			"services": names,
			"count":    len(names),
		})
	}
}

// GatewayHealth probes every registered service concurrently and rolls the
// results into one composite response, always HTTP 200.
func GatewayHealth(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		rollup := d.Prober.Check(c.Request.Context(), d.Registry.Services())
		ok(c, rollup)
	}
}

// CurrentUser returns the authenticated principal. Mounted behind
// RequireUser, so state.IsAuthenticated is always true here.
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.StateFrom(c).Principal
		ok(c, gin.H{
			"user_id":       principal.Subject,
			"email":         principal.Email,
			"role":          principal.Role,
			"authenticated": true,
		})
	}
}
