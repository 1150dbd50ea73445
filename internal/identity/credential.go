// Package identity define la credencial normalizada que producen los
// adapters de login (password, google, icp). El resto del sistema solo
// conoce este tipo; nunca los SDKs de cada proveedor.
package identity

// Provider identifica el mecanismo de login que produjo una credencial.
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
	ProviderICP      Provider = "icp"
)

// Valid reporta si el provider es uno de los conocidos.
func (p Provider) Valid() bool {
	switch p {
	case ProviderPassword, ProviderGoogle, ProviderICP:
		return true
	}
	return false
}

// Credential es el resultado normalizado de un login exitoso.
// Es efímera: el Reconciler la consume una vez y deriva la sesión.
type Credential struct {
	// Provider es el mecanismo que autenticó al sujeto.
	Provider Provider

	// SubjectID es estable entre logins del mismo sujeto por el mismo provider.
	SubjectID string

	// Email es el email conocido del sujeto, o un placeholder determinístico
	// si el provider no entrega uno (ver adapters google/icp).
	Email string

	// DisplayNameHint es un nombre sugerido para perfiles nuevos. Opcional.
	DisplayNameHint string

	// Verification es un vínculo verificable opaco (principal ICP).
	// Vacío para password y google.
	Verification string
}
