package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hongminglow/blog-be/internal/observability"
)

// Metrics records request counts and latency keyed by route template.
func Metrics(m *observability.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			m.ObserveHTTP(r.Method, routeTemplate(r), rec.code(), time.Since(start))
		})
	}
}
