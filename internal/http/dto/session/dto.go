// Package session define los DTOs de la superficie de sesión.
package session

import (
	"time"

	"github.com/mlsniperpro/mediquestai/internal/profile"
	sess "github.com/mlsniperpro/mediquestai/internal/session"
)

// RoleSelectionRequest es el body de POST /v1/session/role.
type RoleSelectionRequest struct {
	Role           string `json:"role"`
	FacilityName   string `json:"facilityName,omitempty"`
	LicenseNumber  string `json:"licenseNumber,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// ProfileView es la proyección del perfil que se expone al cliente.
type ProfileView struct {
	SubjectID             string     `json:"subjectId"`
	Email                 string     `json:"email"`
	DisplayName           string     `json:"displayName,omitempty"`
	Role                  string     `json:"role,omitempty"`
	RoleSelectionComplete bool       `json:"roleSelectionComplete"`
	Provider              string     `json:"provider,omitempty"`
	FacilityName          string     `json:"facilityName,omitempty"`
	LicenseNumber         string     `json:"licenseNumber,omitempty"`
	Specialization        string     `json:"specialization,omitempty"`
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

// SessionView es la proyección del snapshot del Reconciler.
type SessionView struct {
	State              string       `json:"state"`
	IsLoading          bool         `json:"isLoading"`
	NeedsRoleSelection bool         `json:"needsRoleSelection"`
	Provider           string       `json:"provider,omitempty"`
	SubjectID          string       `json:"subjectId,omitempty"`
	Profile            *ProfileView `json:"profile,omitempty"`
}

// LoginResponse es la respuesta de los endpoints de login.
type LoginResponse struct {
	Token   string      `json:"token"`
	Session SessionView `json:"session"`
}

// NewSessionView proyecta un snapshot a su DTO.
func NewSessionView(s sess.Snapshot) SessionView {
	v := SessionView{
		State:              string(s.State),
		IsLoading:          s.IsLoading,
		NeedsRoleSelection: s.NeedsRoleSelection,
	}
	if s.Credential != nil {
		v.Provider = string(s.Credential.Provider)
		v.SubjectID = s.Credential.SubjectID
	}
	if s.Profile != nil {
		v.Profile = newProfileView(s.Profile)
	}
	return v
}

func newProfileView(p *profile.Profile) *ProfileView {
	v := &ProfileView{
		SubjectID:             p.SubjectID,
		Email:                 p.Email,
		DisplayName:           p.DisplayName,
		Role:                  string(p.Role),
		RoleSelectionComplete: p.RoleSelectionComplete,
		Provider:              string(p.Provider),
		FacilityName:          p.FacilityName,
		LicenseNumber:         p.LicenseNumber,
		Specialization:        p.Specialization,
	}
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		v.CreatedAt = &t
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		v.UpdatedAt = &t
	}
	return v
}
