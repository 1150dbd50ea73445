package auth

import (
	"context"
	"net/http"

	dto "github.com/mlsniperpro/mediquestai/internal/http/dto/auth"
	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/http/helpers"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/icp"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// postedPrincipal implementa icp.IdentityClient sobre el principal que el
// cliente ya obtuvo de Internet Identity.
type postedPrincipal struct {
	req dto.ICPLoginRequest
}

func (p postedPrincipal) Login(ctx context.Context) (*icp.LoginResult, error) {
	return &icp.LoginResult{
		PrincipalText: p.req.Principal,
		IsAnonymous:   p.req.IsAnonymous,
	}, nil
}

func (p postedPrincipal) Logout(ctx context.Context) error { return nil }

// ICP maneja POST /v1/auth/icp.
func (c *Controller) ICP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.ICP"))

	var req dto.ICPLoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Principal == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("principal es requerido"))
		return
	}

	cred, err := icp.New(postedPrincipal{req: req}).Authenticate(ctx)
	if err != nil {
		log.Debug("icp login rejected", logger.Err(err))
		httperrors.WriteError(w, mapLoginError(err))
		return
	}

	c.finishLogin(w, r, http.StatusOK, cred)
}
