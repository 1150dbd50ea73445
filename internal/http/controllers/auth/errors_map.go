package auth

import (
	"errors"

	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/google"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/icp"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/password"
	core "github.com/mlsniperpro/mediquestai/internal/session"
)

// mapPasswordError traduce errores del adapter password al catálogo HTTP.
func mapPasswordError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, password.ErrMalformedEmail):
		return httperrors.ErrMalformedEmail
	case errors.Is(err, password.ErrWeakPassword):
		return httperrors.ErrPasswordTooWeak
	case errors.Is(err, password.ErrEmailTaken):
		return httperrors.ErrEmailAlreadyInUse
	case errors.Is(err, password.ErrResetTokenInvalid),
		errors.Is(err, password.ErrAccountNotFound):
		// Un token que apunta a una cuenta inexistente se reporta igual
		// que un token inválido: no filtramos qué cuentas existen.
		return httperrors.ErrResetTokenInvalid
	case errors.Is(err, password.ErrInvalidCredentials):
		return httperrors.ErrInvalidCredentials
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}

// mapLoginError distingue login fallido (401) de fallos internos.
func mapLoginError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, password.ErrMalformedEmail):
		return httperrors.ErrMalformedEmail
	case errors.Is(err, password.ErrAccountNotFound),
		errors.Is(err, password.ErrInvalidCredentials):
		// No distinguimos "no existe" de "password incorrecta".
		return httperrors.ErrInvalidCredentials
	case errors.Is(err, google.ErrPopupClosed):
		return httperrors.ErrPopupClosed
	case errors.Is(err, google.ErrProvider):
		return httperrors.ErrServiceUnavailable.WithCause(err)
	case errors.Is(err, icp.ErrAnonymousPrincipal):
		return httperrors.ErrAnonymousPrincipal
	case errors.Is(err, icp.ErrLoginFailed):
		return httperrors.ErrServiceUnavailable.WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}

// mapSessionError traduce errores del Reconciler.
func mapSessionError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, core.ErrInvalidCredential):
		return httperrors.ErrBadRequest.WithDetail("credencial inválida")
	case errors.Is(err, core.ErrSuperseded):
		return httperrors.ErrSuperseded
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
