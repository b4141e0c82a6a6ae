// Package httpapi wires the gateway's HTTP transport (Gin) to its
// middleware pipeline and handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging, panic recovery, CORS, authentication,
// rate limiting, and reverse-proxy dispatch.
package httpapi

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/cloudsound/api-gateway/internal/aggregator"
	"github.com/cloudsound/api-gateway/internal/auth"
	"github.com/cloudsound/api-gateway/internal/config"
	"github.com/cloudsound/api-gateway/internal/health"
	"github.com/cloudsound/api-gateway/internal/http/handlers"
	"github.com/cloudsound/api-gateway/internal/http/middleware"
	"github.com/cloudsound/api-gateway/internal/metrics"
	"github.com/cloudsound/api-gateway/internal/proxy"
	"github.com/cloudsound/api-gateway/internal/ratelimit"
	"github.com/rs/zerolog"
)

// prefixToService maps a registered proxy prefix to the service name it
// forwards to. Longest-prefix-match is computed by the registry itself.
var prefixToService = map[string]string{
	"/api/v1/radio":     "radio",
	"/api/v1/stream":    "radio",
	"/api/v1/search":    "radio",
	"/api/v1/concerts":  "concerts",
	"/api/v1/auth":      "auth",
	"/api/v1/analytics": "analytics",
	"/api/v1/discover":  "discovery",
	"/api/v1/events":    "events",
	"/api/v1/admin":     "admin",
}

// compositePaths lists the gateway's own /api/v1 endpoints. All of them are
// excluded from Resolve; one of them, /api/v1/admin/overview, falls under a
// proxy prefix (/api/v1/admin), and the exclusion makes the local fan-out
// handler run instead of a transparent forward to the backend.
var compositePaths = []string{
	"/api/v1/home",
	"/api/v1/dashboard",
	"/api/v1/admin/overview",
	"/api/v1/gateway/services",
	"/api/v1/gateway/health",
	"/api/v1/gateway/user",
}

// RegisterRoutes attaches the full middleware pipeline and every in-process
// endpoint to r. Middleware order matters (outermost first):
//
//  1. Tracing (otelgin) — spans everything below.
//  2. Timing — wraps the whole chain so X-Response-Time covers every stage.
//  3. CORS — short-circuits OPTIONS preflights before auth or limits run.
//  4. Correlation — stamps a correlation ID before anything logs.
//  5. Security headers.
//  6. Logging / Recovery.
//  7. Authentication — non-fatal; stamps a principal when present.
//  8. Rate limiting — keys by principal when authenticated, else by IP.
//  9. Proxy dispatch — resolves against the service registry and forwards.
//  10. In-process route handlers for whatever the proxy did not claim,
//      gzip-compressed under /api/v1.
func RegisterRoutes(r *gin.Engine, cfg config.Config, logger zerolog.Logger, m *metrics.Facade) {
	r.HandleMethodNotAllowed = true

	registry := proxy.NewRegistry(map[string]string{
		"radio":     cfg.Services.Radio,
		"concerts":  cfg.Services.Concerts,
		"auth":      cfg.Services.Auth,
		"analytics": cfg.Services.Analytics,
		"discovery": cfg.Services.Discovery,
		"events":    cfg.Services.Events,
		"admin":     cfg.Services.Admin,
	}, prefixToService, compositePaths...)

	serviceOf := make(map[string]string, len(registry.Services()))
	for name, baseURL := range registry.Services() {
		serviceOf[baseURL] = name
	}

	engine := proxy.NewEngine(cfg.Timeouts.Proxy)
	verifier := auth.NewVerifier(cfg.JWT.Secret, cfg.JWT.Algorithm)
	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize, cfg.RateLimit.CleanupInterval)

	deps := &handlers.Deps{
		Config:     cfg,
		Registry:   registry,
		Aggregator: aggregator.NewClient(),
		Prober:     health.NewProber(cfg.Timeouts.Health),
	}

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.Timing(m))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Correlation())
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.WithVerifier(verifier))
	r.Use(middleware.Auth(verifier, m))
	r.Use(middleware.RateLimit(limiter, m))
	r.Use(middleware.Proxy(registry, engine, m, serviceOf))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/", handlers.Root(deps))
	r.GET("/api", handlers.APIInfo())
	r.GET("/health", handlers.Health())
	r.GET("/health/ready", handlers.Ready())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.DocsEnabled {
		r.GET("/openapi.json", handlers.OpenAPISpec())
		r.GET("/docs/*any", handlers.Docs())
	}

	// Gzip only the gateway's own aggregated JSON responses. The proxy
	// pass-through never reaches a registered route (it short-circuits as
	// global middleware before Gin's router dispatches to a handler), so
	// compressing this group never touches a backend's byte-exact body.
	v1 := r.Group("/api/v1", gzip.Gzip(gzip.DefaultCompression))
	v1.GET("/home", handlers.Home(deps))
	v1.GET("/dashboard", middleware.RequireUser(handlers.Dashboard(deps)))
	v1.GET("/admin/overview", middleware.RequireAdmin(handlers.AdminOverview(deps)))
	v1.GET("/gateway/services", handlers.Services(deps))
	v1.GET("/gateway/health", handlers.GatewayHealth(deps))
	v1.GET("/gateway/user", middleware.RequireUser(handlers.CurrentUser()))
}
