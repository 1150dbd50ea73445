package session

import (
	"errors"
	"net/http"

	dto "github.com/mlsniperpro/mediquestai/internal/http/dto/session"
	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/http/helpers"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
	"github.com/mlsniperpro/mediquestai/internal/observability/metrics"
	"github.com/mlsniperpro/mediquestai/internal/profile"
	core "github.com/mlsniperpro/mediquestai/internal/session"
)

// Role maneja POST /v1/session/role: completa la selección de rol y
// pasa la sesión a Ready.
func (c *Controller) Role(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("session.Role"))

	rec, ok := c.resolve(w, r)
	if !ok {
		return
	}

	var req dto.RoleSelectionRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	sel := profile.RoleSelection{
		Role:           profile.Role(req.Role),
		FacilityName:   req.FacilityName,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
	}

	snap, err := rec.CompleteRoleSelection(ctx, sel)
	if err != nil {
		log.Debug("role selection rejected", logger.Role(req.Role), logger.Err(err))
		httperrors.WriteError(w, mapRoleError(err))
		return
	}

	metrics.RoleSelections.WithLabelValues(req.Role).Inc()
	httperrors.WriteJSON(w, http.StatusOK, dto.NewSessionView(snap))
}

func mapRoleError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, profile.ErrRoleInvalid):
		return httperrors.ErrRoleInvalid
	case errors.Is(err, profile.ErrLicenseNumberRequired):
		return httperrors.ErrLicenseNumberRequired
	case errors.Is(err, profile.ErrFacilityNameRequired):
		return httperrors.ErrFacilityNameRequired
	case errors.Is(err, profile.ErrNotFound):
		return httperrors.ErrProfileNotFound
	case errors.Is(err, core.ErrNotPending):
		return httperrors.ErrRoleSelectionNotPending
	case errors.Is(err, core.ErrSuperseded):
		return httperrors.ErrSuperseded
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
