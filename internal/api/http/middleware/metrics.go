package middleware

import (
	"net/http"
	"time"

	"github.com/schemahub/registry/internal/metrics"
)

// Metrics records request counts and durations. endpoint maps a request
// onto a bounded label value (a route pattern, never a raw path).
func Metrics(m *metrics.APIMetrics, endpoint func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(ww, r)

			m.ObserveRequest(r.Method, endpoint(r), ww.statusCode, time.Since(start))
		})
	}
}
