// Package session contiene los controllers de la sesión viva: snapshot,
// selección de rol y logout. Todos exigen el token Bearer de la sesión.
package session

import (
	"errors"
	"net/http"

	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/http/helpers"
	svc "github.com/mlsniperpro/mediquestai/internal/http/services/session"
	core "github.com/mlsniperpro/mediquestai/internal/session"
)

// Controller agrupa los endpoints de sesión.
type Controller struct {
	sessions *svc.Manager
}

// NewController crea el controller de sesión.
func NewController(sessions *svc.Manager) *Controller {
	return &Controller{sessions: sessions}
}

// resolve localiza el Reconciler de la sesión del request, o responde
// el error de autenticación correspondiente.
func (c *Controller) resolve(w http.ResponseWriter, r *http.Request) (*core.Reconciler, bool) {
	token := helpers.BearerToken(r)
	if token == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("falta el token Bearer"))
		return nil, false
	}
	rec, err := c.sessions.Resolve(token)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrSessionExpired):
			httperrors.WriteError(w, httperrors.ErrSessionExpired)
		default:
			httperrors.WriteError(w, httperrors.ErrTokenInvalid)
		}
		return nil, false
	}
	return rec, true
}
