package auth

import (
	"net/http"

	dto "github.com/mlsniperpro/mediquestai/internal/http/dto/auth"
	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/http/helpers"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// Forgot maneja POST /v1/auth/forgot.
// Siempre responde 202 para emails bien formados, exista o no la cuenta.
func (c *Controller) Forgot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.Forgot"))

	var req dto.ForgotRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email es requerido"))
		return
	}

	if err := c.password.RequestReset(ctx, req.Email); err != nil {
		log.Warn("reset request failed", logger.Err(err))
		httperrors.WriteError(w, mapPasswordError(err))
		return
	}

	httperrors.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

// Reset maneja POST /v1/auth/reset. El token es de un solo uso.
func (c *Controller) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.Reset"))

	var req dto.ResetRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Token == "" || req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("token y password son requeridos"))
		return
	}

	if err := c.password.ResetPassword(ctx, req.Token, req.Password); err != nil {
		log.Debug("reset rejected", logger.Err(err))
		httperrors.WriteError(w, mapPasswordError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
