package middleware

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudsound/api-gateway/internal/metrics"
	"github.com/cloudsound/api-gateway/internal/proxy"
	"github.com/cloudsound/api-gateway/internal/ratelimit"
)

// Proxy dispatches a request to a backend when its path resolves in the
// registry, and otherwise passes through to in-process route handlers. It
// must run after rate limiting so denied requests never touch a backend.
func Proxy(registry *proxy.Registry, engine *proxy.Engine, m *metrics.Facade, serviceOf map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		baseURL, ok := registry.Resolve(c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}

		state := StateFrom(c)
		clientIP := ratelimit.ClientIP(c.GetHeader("X-Forwarded-For"), c.ClientIP())
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}

		targetURL, err := proxy.ComposeURL(baseURL, proxy.ForwardPath(c.Request.URL.Path), c.Request.URL.RawQuery)
		if err != nil {
			writeSyntheticError(c, proxy.ErrGateway)
			return
		}

		header := proxy.BuildHeaders(c.Request.Header, clientIP, c.Request.Host, scheme, state.CorrelationID)

		var body io.Reader
		if c.Request.Body != nil {
			body = c.Request.Body
		}

		serviceName := serviceOf[baseURL]

		start := time.Now()
		result, kind := engine.Forward(c.Request.Context(), proxy.ForwardRequest{
			Method:        c.Request.Method,
			TargetURL:     targetURL,
			Header:        header,
			Body:          body,
			ClientIP:      clientIP,
			InboundHost:   c.Request.Host,
			InboundScheme: scheme,
			CorrelationID: state.CorrelationID,
		})
		elapsed := time.Since(start).Seconds()

		if kind != proxy.ErrNone {
			if m != nil {
				m.RecordProxyRequest(serviceName, kind.StatusCode(), elapsed)
			}
			writeSyntheticError(c, kind)
			return
		}

		if m != nil {
			m.RecordProxyRequest(serviceName, result.StatusCode, elapsed)
		}

		for k, vv := range result.Header {
			for _, v := range vv {
				c.Writer.Header().Add(k, v)
			}
		}
		c.Data(result.StatusCode, result.Header.Get("Content-Type"), result.Body)
		c.Abort()
	}
}

func writeSyntheticError(c *gin.Context, kind proxy.ErrKind) {
	c.Writer.Header().Set("Content-Type", "application/json")
	c.AbortWithStatusJSON(kind.StatusCode(), gin.H{"detail": kind.Detail()})
}
