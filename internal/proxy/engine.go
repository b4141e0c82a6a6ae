package proxy

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// hopByHopHeaders lists headers that apply to a single transport link and
// must never be relayed across a proxy.
var hopByHopHeaders = []string{
	"Transfer-Encoding",
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Upgrade",
}

// ForwardRequest describes one inbound request to be relayed to a backend.
type ForwardRequest struct {
	Method        string
	TargetURL     string // fully composed: base + forward path + query
	Header        http.Header
	Body          io.Reader
	ClientIP      string
	InboundHost   string
	InboundScheme string
	CorrelationID string
}

// ForwardResult is the relayed response, ready to be written to the inbound
// client.
type ForwardResult struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Engine forwards requests to backends over a single shared, connection
// pooled HTTP client, and normalizes transport failures into the gateway's
// synthetic error taxonomy (timeout → 504, connect failure → 503, other →
// 502).
type Engine struct {
	timeout time.Duration

	mu     sync.Mutex
	client *http.Client
}

// NewEngine constructs an Engine with the given per-request timeout. The
// underlying client is lazily initialized on first use.
func NewEngine(timeout time.Duration) *Engine {
	return &Engine{timeout: timeout}
}

func (e *Engine) getClient() *http.Client {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		e.client = &http.Client{
			Timeout:   e.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return e.client
}

// ComposeURL joins a backend base URL with a forward path and optional raw
// query string.
func ComposeURL(baseURL, path, rawQuery string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	target := *base
	target.Path = joinPath(base.Path, path)
	target.RawQuery = rawQuery
	return target.String(), nil
}

func joinPath(base, path string) string {
	if base == "" {
		return path
	}
	if strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/") {
		return base + path[1:]
	}
	if !strings.HasSuffix(base, "/") && !strings.HasPrefix(path, "/") {
		return base + "/" + path
	}
	return base + path
}

// BuildHeaders copies inbound headers, drops Host, and injects the
// X-Forwarded-* and X-Correlation-ID headers per §4.5.
func BuildHeaders(inbound http.Header, clientIP, inboundHost, inboundScheme, correlationID string) http.Header {
	out := make(http.Header, len(inbound)+4)
	for k, vv := range inbound {
		if strings.EqualFold(k, "Host") {
			continue
		}
		out[k] = append([]string(nil), vv...)
	}
	out.Set("X-Forwarded-For", clientIP)
	out.Set("X-Forwarded-Host", inboundHost)
	out.Set("X-Forwarded-Proto", inboundScheme)
	if correlationID != "" {
		out.Set("X-Correlation-ID", correlationID)
	}
	return out
}

// ErrKind classifies a forwarding failure for status-code mapping.
type ErrKind int

const (
	ErrNone ErrKind = iota
	ErrTimeout
	ErrUnavailable
	ErrGateway
)

// StatusCode maps an ErrKind to the gateway status code per the §4.5
// failure table; Detail gives the matching body message.
func (k ErrKind) StatusCode() int {
	switch k {
	case ErrTimeout:
		return http.StatusGatewayTimeout
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	case ErrGateway:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

// Detail returns the synthetic JSON detail message for an ErrKind.
func (k ErrKind) Detail() string {
	switch k {
	case ErrTimeout:
		return "Service timeout"
	case ErrUnavailable:
		return "Service unavailable"
	case ErrGateway:
		return "Internal gateway error"
	default:
		return ""
	}
}

// ClassifyError maps a transport error returned by http.Client.Do into an
// ErrKind.
func ClassifyError(err error) ErrKind {
	if err == nil {
		return ErrNone
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrUnavailable
	}
	if strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "no such host") {
		return ErrUnavailable
	}
	return ErrGateway
}

// Forward issues req against the shared client and returns the relayed
// response, or an ErrKind describing how the call failed.
func (e *Engine) Forward(ctx context.Context, req ForwardRequest) (*ForwardResult, ErrKind) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.TargetURL, req.Body)
	if err != nil {
		return nil, ErrGateway
	}
	httpReq.Header = req.Header

	resp, err := e.getClient().Do(httpReq)
	if err != nil {
		return nil, ClassifyError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrGateway
	}

	header := resp.Header.Clone()
	for _, h := range hopByHopHeaders {
		header.Del(h)
	}

	return &ForwardResult{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       body,
	}, ErrNone
}
