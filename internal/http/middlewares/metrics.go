package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mlsniperpro/mediquestai/internal/observability/metrics"
)

// WithMetrics registra contadores y latencia por request.
// Usa el patrón de ruta (no la URL cruda) para no explotar la cardinalidad.
func WithMetrics(routePattern func(r *http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := r.URL.Path
			if routePattern != nil {
				if p := routePattern(r); p != "" {
					path = p
				}
			}
			metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
