package auth

import (
	"net/http"

	dto "github.com/mlsniperpro/mediquestai/internal/http/dto/auth"
	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/http/helpers"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// Register maneja POST /v1/auth/register.
// Crea la cuenta y abre sesión como si el usuario hubiera hecho login
// inmediatamente después.
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.Register"))

	var req dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email y password son requeridos"))
		return
	}

	cred, err := c.password.Register(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		log.Debug("register rejected", logger.Err(err))
		httperrors.WriteError(w, mapPasswordError(err))
		return
	}

	c.finishLogin(w, r, http.StatusCreated, cred)
}
