// Package router arma el árbol de rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/auth"
	healthctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/health"
	sessctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/session"
	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	mw "github.com/mlsniperpro/mediquestai/internal/http/middlewares"
)

// Deps son los controllers y opciones que necesita el router.
type Deps struct {
	Auth    *authctl.Controller
	Session *sessctl.Controller
	Health  *healthctl.Controller

	CORSAllowedOrigins []string
	GoogleEnabled      bool
	ICPEnabled         bool
}

// New construye el handler raíz con middlewares globales y rutas v1.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithRecovery(),
		mw.WithCORS(d.CORSAllowedOrigins),
		mw.WithLogging(),
		mw.WithMetrics(routePattern),
	)

	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			if d.GoogleEnabled {
				r.Post("/google", d.Auth.Google)
			}
			if d.ICPEnabled {
				r.Post("/icp", d.Auth.ICP)
			}
			r.Post("/forgot", d.Auth.Forgot)
			r.Post("/reset", d.Auth.Reset)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", d.Session.Me)
			r.Post("/role", d.Session.Role)
			r.Post("/logout", d.Session.Logout)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	return r
}

// routePattern expone el patrón de ruta de chi para las métricas,
// ya resuelto el routing (cardinalidad acotada).
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
