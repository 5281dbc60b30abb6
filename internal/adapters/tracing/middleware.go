package tracing

import (
	"net/http"

	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/otel/trace"
)

// Middleware returns an OpenTelemetry middleware for Chi routers that also
// tags the server span with the request id.
func Middleware(serviceName string, opts ...otelchi.Option) func(http.Handler) http.Handler {
	baseMiddleware := otelchi.Middleware(serviceName, opts...)

	return func(next http.Handler) http.Handler {
		return baseMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			span := trace.SpanFromContext(r.Context())
			if span.IsRecording() {
				requestID := w.Header().Get("X-Request-ID")
				if requestID == "" {
					requestID = r.Header.Get("X-Request-ID")
				}
				if requestID != "" {
					span.SetAttributes(RequestID(requestID))
				}
			}
			next.ServeHTTP(w, r)
		}))
	}
}
