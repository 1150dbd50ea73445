package session

import (
	"errors"
	"net/http"

	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/icp"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
	"github.com/mlsniperpro/mediquestai/internal/observability/metrics"
)

// Logout maneja POST /v1/session/logout.
// Si la sesión externa del proveedor no se pudo invalidar, la sesión
// local queda intacta y se responde el error.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("session.Logout"))

	rec, ok := c.resolve(w, r)
	if !ok {
		return
	}

	err := rec.Logout(ctx)
	metrics.Logouts.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		log.Warn("logout failed", logger.Err(err))
		if errors.Is(err, icp.ErrLogoutFailed) {
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("no se pudo cerrar la sesión del proveedor de identidad"))
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
