package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudsound/api-gateway/internal/metrics"
)

// timingWriter intercepts the first header flush so X-Response-Time can be
// set once the handler's duration is known, even though Gin only exposes a
// gin.ResponseWriter whose headers are flushed lazily on first Write.
type timingWriter struct {
	gin.ResponseWriter
	start   time.Time
	flushed bool
}

func (w *timingWriter) flushOnce() {
	if w.flushed {
		return
	}
	w.flushed = true
	elapsed := time.Since(w.start)
	w.Header().Set("X-Response-Time", fmt.Sprintf("%.6fs", elapsed.Seconds()))
}

func (w *timingWriter) WriteHeader(code int) {
	w.flushOnce()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.flushOnce()
	return w.ResponseWriter.Write(b)
}

func (w *timingWriter) WriteString(s string) (int, error) {
	w.flushOnce()
	return w.ResponseWriter.WriteString(s)
}

// Timing wraps the entire pipeline: it records wall duration, adds
// X-Response-Time to every response, and reports the request to the
// metrics facade. Register it first so it measures everything downstream.
func Timing(m *metrics.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if m != nil {
			m.IncActiveConnections()
			defer m.DecActiveConnections()
		}

		tw := &timingWriter{ResponseWriter: c.Writer, start: start}
		c.Writer = tw

		c.Next()

		elapsed := time.Since(start)
		if m != nil {
			m.RecordRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed.Seconds())
		}
	}
}
