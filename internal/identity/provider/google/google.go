// Package google adapta el consent popup de Google OAuth a una
// identity.Credential. El popup en sí es del SDK del proveedor; acá solo
// normalizamos su resultado.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// Errores del adapter Google.
var (
	// ErrPopupClosed: el usuario cerró el popup sin completar el consent.
	ErrPopupClosed = errors.New("google: popup closed by user")

	// ErrProvider envuelve cualquier otro fallo del proveedor.
	ErrProvider = errors.New("google: provider error")
)

// ConsentResult es lo que entrega el SDK al cerrar el consent flow.
type ConsentResult struct {
	SubjectID   string
	Email       string
	DisplayName string
}

// ConsentFlow es la superficie mínima del SDK del proveedor OAuth.
// Una implementación real abre el popup; los tests usan un fake.
type ConsentFlow interface {
	OpenConsentPopup(ctx context.Context) (*ConsentResult, error)
}

// Adapter implementa el login por Google OAuth.
type Adapter struct {
	flow ConsentFlow
}

// New crea el adapter sobre el consent flow dado.
func New(flow ConsentFlow) *Adapter {
	return &Adapter{flow: flow}
}

// Authenticate abre el consent flow y normaliza el resultado.
func (a *Adapter) Authenticate(ctx context.Context) (identity.Credential, error) {
	log := logger.From(ctx).With(logger.Layer("adapter"), logger.Op("google.Authenticate"))

	res, err := a.flow.OpenConsentPopup(ctx)
	if err != nil {
		if errors.Is(err, ErrPopupClosed) {
			log.Debug("consent popup closed by user")
			return identity.Credential{}, err
		}
		log.Warn("consent flow failed", logger.Err(err))
		return identity.Credential{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	email := res.Email
	if email == "" {
		// Algunos consents no exponen email; sintetizamos uno
		// determinístico para que los re-logins sean idempotentes.
		email = PlaceholderEmail(res.SubjectID)
	}

	return identity.Credential{
		Provider:        identity.ProviderGoogle,
		SubjectID:       res.SubjectID,
		Email:           email,
		DisplayNameHint: res.DisplayName,
	}, nil
}

// PlaceholderEmail deriva un email sintético para sujetos OAuth sin email.
// Función pura, determinística respecto del subject id.
func PlaceholderEmail(subjectID string) string {
	return subjectID + "@oauth.mediquest.id"
}
