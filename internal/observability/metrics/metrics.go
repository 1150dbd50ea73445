// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins cuenta logins por proveedor y resultado (ok | error).
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediquest",
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Logins procesados, por proveedor y resultado.",
	}, []string{"provider", "outcome"})

	// ProfilesCreated cuenta perfiles creados en el primer login.
	ProfilesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mediquest",
		Subsystem: "auth",
		Name:      "profiles_created_total",
		Help:      "Perfiles creados en el primer login de un sujeto.",
	})

	// RoleSelections cuenta selecciones de rol completadas, por rol.
	RoleSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediquest",
		Subsystem: "auth",
		Name:      "role_selections_total",
		Help:      "Selecciones de rol completadas, por rol.",
	}, []string{"role"})

	// Logouts cuenta logouts por resultado (ok | error).
	Logouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediquest",
		Subsystem: "auth",
		Name:      "logouts_total",
		Help:      "Logouts procesados, por resultado.",
	}, []string{"outcome"})

	// HTTPRequests cuenta requests HTTP por método, ruta y status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediquest",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Requests HTTP atendidos.",
	}, []string{"method", "path", "status"})

	// HTTPDuration mide la latencia de los requests HTTP.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mediquest",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duración de los requests HTTP.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Outcome normaliza el label outcome de un error.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
