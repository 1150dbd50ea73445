// Package auth define los DTOs de los endpoints de autenticación.
package auth

// RegisterRequest es el body de POST /v1/auth/register.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

// LoginRequest es el body de POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest es el body de POST /v1/auth/google.
// El SPA completa el consent popup con el SDK del proveedor y nos
// reenvía el resultado normalizado.
type GoogleLoginRequest struct {
	SubjectID   string `json:"sub"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`

	// PopupClosed indica que el usuario cerró el popup sin completar
	// el consent. No es un error del proveedor.
	PopupClosed bool `json:"popupClosed,omitempty"`
}

// ICPLoginRequest es el body de POST /v1/auth/icp.
// El cliente completa el flujo de Internet Identity y reenvía el
// principal en su forma de texto canónica.
type ICPLoginRequest struct {
	Principal   string `json:"principal"`
	IsAnonymous bool   `json:"isAnonymous,omitempty"`
}

// ForgotRequest es el body de POST /v1/auth/forgot.
type ForgotRequest struct {
	Email string `json:"email"`
}

// ResetRequest es el body de POST /v1/auth/reset.
type ResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
