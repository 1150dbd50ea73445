// Package session contiene el Reconciler: el dueño único de la sesión
// derivada de un login. Unifica los tres proveedores de identidad en un
// modelo de sesión consistente y publica snapshots read-only a los
// consumidores (route guards, controllers).
package session

import (
	"errors"

	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/profile"
)

// State es el estado de la máquina del Reconciler.
type State string

const (
	StateSignedOut            State = "signed_out"
	StateAuthenticating       State = "authenticating"
	StateProfileResolving     State = "profile_resolving"
	StateRoleSelectionPending State = "role_selection_pending"
	StateReady                State = "ready"
)

// Errores del Reconciler.
var (
	// ErrInvalidCredential: la credencial no tiene provider/subject válidos.
	ErrInvalidCredential = errors.New("session: invalid credential")

	// ErrSuperseded: un login/logout más nuevo reemplazó esta operación
	// mientras resolvía; su resultado se descarta y no se publica.
	ErrSuperseded = errors.New("session: superseded by a newer auth event")

	// ErrNotPending: se pidió completar role selection sin una sesión
	// en estado RoleSelectionPending.
	ErrNotPending = errors.New("session: no role selection pending")
)

// Snapshot es la vista read-only que se publica a los consumidores.
// Se reconstruye (no se muta) en cada cambio de estado de auth.
type Snapshot struct {
	State State

	// Credential que produjo la sesión; nil si signed out.
	Credential *identity.Credential

	// Profile correspondiente; nil si signed out o todavía no creado.
	Profile *profile.Profile

	// NeedsRoleSelection es true cuando la sesión está esperando la
	// selección de rol (incluso si Profile no se pudo leer).
	NeedsRoleSelection bool

	// IsLoading es true solo en la ventana entre una transición de auth
	// y el fin del lookup/creación de perfil.
	IsLoading bool
}

// clone copia el snapshot con su propio Profile/Credential, para que
// ningún consumidor pueda mutar el estado del Reconciler.
func (s Snapshot) clone() Snapshot {
	out := s
	if s.Credential != nil {
		c := *s.Credential
		out.Credential = &c
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}
