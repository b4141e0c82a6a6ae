// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes gateway settings
// such as server timeouts, logging, backend service URLs, JWT verification,
// rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "api-gateway")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// JWTConfig defines the symmetric key and algorithm used to verify bearer
// tokens minted by the auth subsystem. The gateway never issues tokens
// itself; it only verifies them.
type JWTConfig struct {
	Secret    string // JWT_SECRET
	Algorithm string // JWT_ALGORITHM, e.g. "HS256"
}

// ServiceURLs holds the backend base URL for each recognized service name.
type ServiceURLs struct {
	Radio     string // RADIO_SERVICE_URL
	Concerts  string // CONCERTS_SERVICE_URL
	Auth      string // AUTH_SERVICE_URL
	Analytics string // ANALYTICS_SERVICE_URL
	Discovery string // DISCOVERY_SERVICE_URL
	Events    string // EVENTS_SERVICE_URL
	Admin     string // ADMIN_SERVICE_URL
}

// RateLimitConfig configures the token-bucket rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int           // RATE_LIMIT_RPM
	BurstSize         int           // RATE_LIMIT_BURST
	CleanupInterval   time.Duration // RATE_LIMIT_CLEANUP_INTERVAL
}

// TimeoutConfig configures outbound call deadlines.
type TimeoutConfig struct {
	Proxy      time.Duration // PROXY_TIMEOUT
	Aggregator time.Duration // AGGREGATOR_TIMEOUT
	Health     time.Duration // HEALTH_CHECK_TIMEOUT
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogFormat   string // json|console
	LogPretty   bool   // pretty console logs in dev (derived from LogFormat)
	DocsEnabled bool   // enable /docs + /openapi.json

	// App identity
	AppVersion  string // APP_VERSION
	Environment string // ENVIRONMENT

	Services  ServiceURLs
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Timeouts  TimeoutConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getenv("LOG_FORMAT", "json")),
		DocsEnabled: getbool("DOCS_ENABLED", true),

		// App identity
		AppVersion:  getenv("APP_VERSION", "1.0.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		Services: ServiceURLs{
			Radio:     getenv("RADIO_SERVICE_URL", "http://localhost:8001"),
			Concerts:  getenv("CONCERTS_SERVICE_URL", "http://localhost:8002"),
			Auth:      getenv("AUTH_SERVICE_URL", "http://localhost:8003"),
			Analytics: getenv("ANALYTICS_SERVICE_URL", "http://localhost:8004"),
			Discovery: getenv("DISCOVERY_SERVICE_URL", "http://localhost:8005"),
			Events:    getenv("EVENTS_SERVICE_URL", "http://localhost:8006"),
			Admin:     getenv("ADMIN_SERVICE_URL", "http://localhost:8007"),
		},

		JWT: JWTConfig{
			Secret:    getenv("JWT_SECRET", ""),
			Algorithm: getenv("JWT_ALGORITHM", "HS256"),
		},

		RateLimit: RateLimitConfig{
			RequestsPerMinute: getint("RATE_LIMIT_RPM", 100),
			BurstSize:         getint("RATE_LIMIT_BURST", 20),
			CleanupInterval:   getdur("RATE_LIMIT_CLEANUP_INTERVAL", 300*time.Second),
		},

		Timeouts: TimeoutConfig{
			Proxy:      getdur("PROXY_TIMEOUT", 30*time.Second),
			Aggregator: getdur("AGGREGATOR_TIMEOUT", 5*time.Second),
			Health:     getdur("HEALTH_CHECK_TIMEOUT", 5*time.Second),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "api-gateway"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.LogPretty = cfg.LogFormat == "console"

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return cfg, errors.New("LOG_FORMAT must be one of: json, console")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.RateLimit.RequestsPerMinute < 1 {
		return cfg, errors.New("RATE_LIMIT_RPM must be >= 1")
	}
	if cfg.RateLimit.BurstSize < 1 {
		return cfg, errors.New("RATE_LIMIT_BURST must be >= 1")
	}
	if cfg.RateLimit.CleanupInterval <= 0 {
		return cfg, errors.New("RATE_LIMIT_CLEANUP_INTERVAL must be > 0")
	}
	if cfg.Timeouts.Proxy <= 0 || cfg.Timeouts.Aggregator <= 0 || cfg.Timeouts.Health <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
