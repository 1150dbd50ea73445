// Package icp adapta el login por Internet Computer identity a una
// identity.Credential. Delegamos en un IdentityClient externo que entrega
// el principal criptográfico; este adapter solo normaliza y valida.
package icp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// Errores del adapter ICP.
var (
	// ErrAnonymousPrincipal: el servicio de identidad devolvió el principal
	// anónimo. Es un fallo de autenticación, nunca un login válido.
	ErrAnonymousPrincipal = errors.New("icp: anonymous principal rejected")

	// ErrLoginFailed envuelve fallos del servicio de identidad externo.
	ErrLoginFailed = errors.New("icp: login failed")

	// ErrLogoutFailed envuelve fallos al invalidar la sesión externa.
	ErrLogoutFailed = errors.New("icp: logout failed")
)

// LoginResult es lo que entrega el servicio de identidad externo.
type LoginResult struct {
	PrincipalText string
	IsAnonymous   bool
}

// IdentityClient es la superficie mínima del SDK de Internet Identity.
type IdentityClient interface {
	Login(ctx context.Context) (*LoginResult, error)
	Logout(ctx context.Context) error
}

const subjectPrefix = "icp_"

// SubjectID deriva el subject id desde el texto canónico del principal.
// Función pura: el mismo principal siempre produce el mismo id.
func SubjectID(principalText string) string {
	return subjectPrefix + principalText
}

// PlaceholderEmail deriva el email sintético para sujetos ICP.
// Función pura, determinística respecto del principal.
func PlaceholderEmail(principalText string) string {
	return principalText + "@icp.identity"
}

// DisplayName sintetiza el nombre visible inicial de un sujeto ICP.
func DisplayName(principalText string) string {
	short := principalText
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ICP User %s...", short)
}

// Adapter implementa el login ICP.
type Adapter struct {
	client IdentityClient
}

// New crea el adapter sobre el cliente de identidad dado.
func New(client IdentityClient) *Adapter {
	return &Adapter{client: client}
}

// Authenticate corre el flujo de login externo y normaliza el resultado.
// Un principal anónimo se rechaza con ErrAnonymousPrincipal.
func (a *Adapter) Authenticate(ctx context.Context) (identity.Credential, error) {
	log := logger.From(ctx).With(logger.Layer("adapter"), logger.Op("icp.Authenticate"))

	res, err := a.client.Login(ctx)
	if err != nil {
		log.Warn("identity service login failed", logger.Err(err))
		return identity.Credential{}, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if res.IsAnonymous {
		log.Warn("anonymous principal rejected")
		return identity.Credential{}, ErrAnonymousPrincipal
	}

	principal := res.PrincipalText
	return identity.Credential{
		Provider:        identity.ProviderICP,
		SubjectID:       SubjectID(principal),
		Email:           PlaceholderEmail(principal),
		DisplayNameHint: DisplayName(principal),
		Verification:    principal,
	}, nil
}

// Invalidate invalida la sesión del servicio de identidad externo.
// El Reconciler la llama ANTES de limpiar estado local en un logout ICP.
func (a *Adapter) Invalidate(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrLogoutFailed, err)
	}
	return nil
}
