// Package profile contiene el perfil de usuario persistente y su gateway
// de acceso sobre el docstore. Un perfil por subjectID; el subjectID es
// inmutable una vez creado.
package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/mlsniperpro/mediquestai/internal/identity"
)

// Role es el rol elegido en el paso de role selection.
type Role string

const (
	RoleIndividual             Role = "individual"
	RoleHealthcareProfessional Role = "healthcare_professional"
	RoleMedicalFacility        Role = "medical_facility"
)

// Valid reporta si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleIndividual, RoleHealthcareProfessional, RoleMedicalFacility:
		return true
	}
	return false
}

// Profile es el registro persistente de un usuario.
// Los campos string opcionales usan "" como ausente; el gateway los omite
// del documento guardado (nunca null/placeholder) para poder distinguir
// "nunca seteado" de "vacío explícito" en lecturas posteriores.
type Profile struct {
	SubjectID             string
	Email                 string
	DisplayName           string
	Role                  Role
	RoleSelectionComplete bool
	Provider              identity.Provider
	ProviderLinkage       string

	// Campos por rol. Su presencia depende de Role, pero la ausencia
	// nunca rompe una lectura.
	FacilityName   string
	LicenseNumber  string
	Specialization string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Errores de validación de role selection.
var (
	ErrRoleInvalid           = errors.New("profile: invalid role")
	ErrLicenseNumberRequired = errors.New("profile: license number required for healthcare professionals")
	ErrFacilityNameRequired  = errors.New("profile: facility name required for medical facilities")
)

// RoleSelection son los datos del paso único de selección de rol.
type RoleSelection struct {
	Role           Role
	FacilityName   string
	LicenseNumber  string
	Specialization string
}

// Validate aplica las reglas por rol del lado del cliente, antes de
// cualquier escritura: un submit inválido no genera tráfico al store.
func (s RoleSelection) Validate() error {
	if !s.Role.Valid() {
		return ErrRoleInvalid
	}
	switch s.Role {
	case RoleHealthcareProfessional:
		if strings.TrimSpace(s.LicenseNumber) == "" {
			return ErrLicenseNumberRequired
		}
	case RoleMedicalFacility:
		if strings.TrimSpace(s.FacilityName) == "" {
			return ErrFacilityNameRequired
		}
	}
	return nil
}
