package auth

import (
	"net/http"

	dto "github.com/mlsniperpro/mediquestai/internal/http/dto/auth"
	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/http/helpers"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// Login maneja POST /v1/auth/login (email/password).
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email y password son requeridos"))
		return
	}

	cred, err := c.password.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		log.Debug("login rejected", logger.Err(err))
		httperrors.WriteError(w, mapLoginError(err))
		return
	}

	c.finishLogin(w, r, http.StatusOK, cred)
}
