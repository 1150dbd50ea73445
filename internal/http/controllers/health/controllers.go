// Package health expone los endpoints de liveness y readiness.
package health

import (
	"net/http"

	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
	"github.com/mlsniperpro/mediquestai/internal/profile/docstore"
)

// Controller agrupa los endpoints de health.
type Controller struct {
	db docstore.Store
}

// NewController crea el controller de health.
func NewController(db docstore.Store) *Controller {
	return &Controller{db: db}
}

// Healthz maneja GET /healthz (liveness).
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	httperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz (readiness): verifica el docstore.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := c.db.Ping(r.Context()); err != nil {
		logger.From(r.Context()).Warn("readiness check failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("docstore no disponible"))
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
