// Command gateway runs the CloudSound API Gateway: an HTTP reverse proxy
// that authenticates, rate-limits, and dispatches requests to the
// platform's backend services, and serves a handful of aggregated
// composite endpoints of its own.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cloudsound/api-gateway/internal/config"
	httpapi "github.com/cloudsound/api-gateway/internal/http"
	"github.com/cloudsound/api-gateway/internal/metrics"
	"github.com/cloudsound/api-gateway/internal/observability"
	"github.com/cloudsound/api-gateway/internal/sysutil"
)

func main() {
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, cfg.AppVersion)
	if err != nil {
		log.Fatalf("otel setup: %v", err)
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			logger.Error().Err(err).Msg("otel_shutdown_failed")
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)
	m.Init(cfg.AppVersion)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	httpapi.RegisterRoutes(router, cfg, logger, m)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("version", cfg.AppVersion).Msg("api_gateway_starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api_gateway_shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info().Msg("api_gateway_exited")
}
