package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader keeps the first status code written.
func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Flush is required by the SSE and streamable-http transports.
func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// HTTPMetrics records request count and latency per method, route and
// status. A nil or disabled provider makes it a pass-through.
func HTTPMetrics(provider *instrumentation.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if provider == nil || !provider.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			provider.Metrics().RecordHTTPRequest(
				r.Context(),
				r.Method,
				routeLabel(r.URL.Path),
				rec.statusCode,
				time.Since(start),
			)
		})
	}
}

var knownRoutes = map[string]bool{
	"/mcp":              true,
	"/sse":              true,
	"/message":          true,
	"/health":           true,
	"/healthz":          true,
	"/healthz/detailed": true,
	"/readyz":           true,
}

var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// routeLabel bounds the path label: known routes pass through, UUIDs are
// collapsed and anything else is reported as "other".
func routeLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	collapsed := uuidPattern.ReplaceAllString(path, ":uuid")
	if collapsed != path {
		return collapsed
	}
	return "other"
}
