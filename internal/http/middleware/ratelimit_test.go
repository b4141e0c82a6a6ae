package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudsound/api-gateway/internal/ratelimit"
)

func TestRateLimit_ExemptPathBypasses(t *testing.T) {
	limiter := ratelimit.New(60, 1, 300*time.Second)
	router := gin.New()
	router.Use(RateLimit(limiter, nil))
	router.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("call %d: status = %d, want 200 (exempt)", i, w.Code)
		}
	}
}

func TestRateLimit_DeniesAfterBurst(t *testing.T) {
	limiter := ratelimit.New(60, 2, 300*time.Second)
	router := gin.New()
	router.Use(RateLimit(limiter, nil))
	router.GET("/api/v1/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("call %d: status = %d, want 200", i, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if w.Body.String() == "" {
		t.Error("expected a body on 429")
	}
}

func TestRateLimit_AttachesHeadersOnSuccess(t *testing.T) {
	limiter := ratelimit.New(60, 5, 300*time.Second)
	router := gin.New()
	router.Use(RateLimit(limiter, nil))
	router.GET("/api/v1/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("missing X-RateLimit-Limit")
	}
	if w.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("missing X-RateLimit-Remaining")
	}
}
