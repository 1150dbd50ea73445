package auth

import (
	"context"
	"net/http"

	dto "github.com/mlsniperpro/mediquestai/internal/http/dto/auth"
	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/http/helpers"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/google"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// postedConsent implementa google.ConsentFlow sobre el resultado que el
// SPA ya obtuvo del popup. El flujo interactivo vive en el navegador;
// acá solo se normaliza.
type postedConsent struct {
	req dto.GoogleLoginRequest
}

func (p postedConsent) OpenConsentPopup(ctx context.Context) (*google.ConsentResult, error) {
	if p.req.PopupClosed {
		return nil, google.ErrPopupClosed
	}
	return &google.ConsentResult{
		SubjectID:   p.req.SubjectID,
		Email:       p.req.Email,
		DisplayName: p.req.DisplayName,
	}, nil
}

// Google maneja POST /v1/auth/google.
func (c *Controller) Google(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.Google"))

	var req dto.GoogleLoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if !req.PopupClosed && req.SubjectID == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("sub es requerido"))
		return
	}

	cred, err := google.New(postedConsent{req: req}).Authenticate(ctx)
	if err != nil {
		log.Debug("google login rejected", logger.Err(err))
		httperrors.WriteError(w, mapLoginError(err))
		return
	}

	c.finishLogin(w, r, http.StatusOK, cred)
}
