// Package auth contiene los controllers de los endpoints de login.
// Cada endpoint normaliza la entrada con su adapter de proveedor y le
// entrega la credencial resultante al Reconciler de la sesión.
package auth

import (
	"net/http"

	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/http/helpers"
	svc "github.com/mlsniperpro/mediquestai/internal/http/services/session"
	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/password"
	"github.com/mlsniperpro/mediquestai/internal/observability/metrics"
	core "github.com/mlsniperpro/mediquestai/internal/session"

	sessiondto "github.com/mlsniperpro/mediquestai/internal/http/dto/session"
)

// Controller agrupa los endpoints de autenticación.
type Controller struct {
	password *password.Adapter
	sessions *svc.Manager
}

// NewController crea el controller de auth.
func NewController(pw *password.Adapter, sessions *svc.Manager) *Controller {
	return &Controller{password: pw, sessions: sessions}
}

// reconcilerFor reutiliza la sesión del token Bearer si es válida
// (un login sobre sesión viva reemplaza al anterior vía el Reconciler);
// si no hay token o no resuelve, abre una sesión nueva.
func (c *Controller) reconcilerFor(w http.ResponseWriter, r *http.Request) (string, *core.Reconciler, bool) {
	ctx := r.Context()
	if t := helpers.BearerToken(r); t != "" {
		if rec, err := c.sessions.Resolve(t); err == nil {
			return t, rec, true
		}
	}
	token, rec, err := c.sessions.Create(ctx)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return "", nil, false
	}
	return token, rec, true
}

// finishLogin corre el Reconciler con la credencial y responde.
func (c *Controller) finishLogin(w http.ResponseWriter, r *http.Request, status int, cred identity.Credential) {
	token, rec, ok := c.reconcilerFor(w, r)
	if !ok {
		metrics.Logins.WithLabelValues(string(cred.Provider), "error").Inc()
		return
	}

	snap, err := rec.Login(r.Context(), cred)
	metrics.Logins.WithLabelValues(string(cred.Provider), metrics.Outcome(err)).Inc()
	if err != nil {
		httperrors.WriteError(w, mapSessionError(err))
		return
	}

	httperrors.WriteJSON(w, status, sessiondto.LoginResponse{
		Token:   token,
		Session: sessiondto.NewSessionView(snap),
	})
}
