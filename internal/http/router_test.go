package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cloudsound/api-gateway/internal/config"
	"github.com/cloudsound/api-gateway/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func signTestToken(t *testing.T, secret, subject, role string) string {
	t.Helper()
	c := testClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) (*gin.Engine, config.Config) {
	t.Helper()
	cfg := config.Config{
		GinMode:     "test",
		LogLevel:    "info",
		LogFormat:   "json",
		AppVersion:  "test",
		Environment: "test",
		DocsEnabled: true,
		JWT:         config.JWTConfig{Secret: "testsecret", Algorithm: "HS256"},
		RateLimit:   config.RateLimitConfig{RequestsPerMinute: 100, BurstSize: 20, CleanupInterval: 300 * time.Second},
		Timeouts:    config.TimeoutConfig{Proxy: 2 * time.Second, Aggregator: 2 * time.Second, Health: 2 * time.Second},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	r := gin.New()
	m := metrics.New(prometheus.NewRegistry())
	RegisterRoutes(r, cfg, zerolog.Nop(), m)
	return r, cfg
}

func TestRouter_S1PublicBypassToBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer backend.Close()

	r, _ := newTestRouter(t, func(c *config.Config) {
		c.Services.Radio = backend.URL
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/radio/stations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("missing X-RateLimit-Limit on public route")
	}
}

func TestRouter_S2BurstThenDeny(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	r, _ := newTestRouter(t, func(c *config.Config) {
		c.Services.Events = backend.URL
		c.RateLimit.BurstSize = 20
		c.RateLimit.RequestsPerMinute = 100
	})

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d denied too early", i)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("21st request status = %d, want 429", w.Code)
	}
	if w.Body.String() != `{"detail":"Rate limit exceeded. Try again later."}` {
		t.Errorf("body = %q", w.Body.String())
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}

func TestRouter_S3AdminGate(t *testing.T) {
	r, cfg := newTestRouter(t, nil)

	userToken := signTestToken(t, cfg.JWT.Secret, "u1", "user")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/overview", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("user role status = %d, want 403", w.Code)
	}

	adminToken := signTestToken(t, cfg.JWT.Secret, "a1", "admin")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/overview", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin role status = %d, want 200", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["admin_id"] != "a1" {
		t.Errorf("admin_id = %v, want a1", body["admin_id"])
	}
	for _, field := range []string{"radio_stats", "concert_stats", "analytics_stats", "storage_stats"} {
		if _, ok := body[field]; !ok {
			t.Errorf("missing field %s", field)
		}
	}
}

func TestRouter_S4BackendTimeoutReturns504(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	}))
	defer slow.Close()

	r, _ := newTestRouter(t, func(c *config.Config) {
		c.Services.Concerts = slow.URL
		c.Timeouts.Proxy = 50 * time.Millisecond
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/concerts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", w.Code)
	}
	if w.Body.String() != `{"detail":"Service timeout"}` {
		t.Errorf("body = %q", w.Body.String())
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
}

func TestRouter_S5AggregatorPartial(t *testing.T) {
	radio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		stations := make([]string, 10)
		for i := range stations {
			stations[i] = `{"id":"` + string(rune('a'+i)) + `"}`
		}
		w.Write([]byte("[" + joinJSON(stations) + "]"))
	}))
	defer radio.Close()

	r, _ := newTestRouter(t, func(c *config.Config) {
		c.Services.Radio = radio.URL
		c.Services.Concerts = "http://127.0.0.1:1"
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/home", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	featured, _ := body["featured_stations"].([]any)
	if len(featured) != 6 {
		t.Errorf("featured_stations len = %d, want 6", len(featured))
	}
	concerts, _ := body["upcoming_concerts"].([]any)
	if len(concerts) != 0 {
		t.Errorf("upcoming_concerts len = %d, want 0", len(concerts))
	}
}

func TestRouter_S6CorrelationPropagation(t *testing.T) {
	var seen string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Correlation-ID")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	r, _ := newTestRouter(t, func(c *config.Config) {
		c.Services.Radio = backend.URL
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/radio/stations", nil)
	req.Header.Set("X-Correlation-ID", "abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen != "abc123" {
		t.Errorf("backend saw correlation id %q, want abc123", seen)
	}
	if w.Header().Get("X-Correlation-ID") != "abc123" {
		t.Errorf("response correlation id = %q, want abc123", w.Header().Get("X-Correlation-ID"))
	}
}

func TestRouter_HealthAndMetricsEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/", "/api", "/openapi.json"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, w.Code)
		}
	}
}

func joinJSON(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
