package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/profile/docstore"
)

// Errores del store de perfiles.
var (
	ErrNotFound      = errors.New("profile: not found")
	ErrAlreadyExists = errors.New("profile: already exists")
)

// Update describe una escritura parcial. Solo los campos no-nil se aplican;
// Update nunca crea perfiles (creación solo via Create).
type Update struct {
	DisplayName           *string
	Role                  *Role
	RoleSelectionComplete *bool
	FacilityName          *string
	LicenseNumber         *string
	Specialization        *string
}

// Store es el gateway de lectura/escritura de perfiles.
type Store interface {
	Read(ctx context.Context, subjectID string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, subjectID string, u Update) error
}

const usersCollection = "users"

// Gateway implementa Store sobre un docstore.Store.
type Gateway struct {
	db docstore.Store
}

// NewGateway crea un Gateway sobre el docstore dado.
func NewGateway(db docstore.Store) *Gateway {
	return &Gateway{db: db}
}

// Read retorna el perfil o ErrNotFound. Nunca lanza por "no existe".
func (g *Gateway) Read(ctx context.Context, subjectID string) (*Profile, error) {
	doc, err := g.db.Get(ctx, usersCollection, subjectID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: read %s: %w", subjectID, err)
	}
	return decode(subjectID, doc), nil
}

// Create guarda un perfil nuevo. Retorna ErrAlreadyExists si el subjectID
// ya tiene perfil (el llamador decide si la colisión es benigna).
func (g *Gateway) Create(ctx context.Context, p *Profile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = p.CreatedAt

	err := g.db.Create(ctx, usersCollection, p.SubjectID, encode(p))
	if err != nil {
		if errors.Is(err, docstore.ErrExists) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("profile: create %s: %w", p.SubjectID, err)
	}
	return nil
}

// Update aplica una escritura parcial. Retorna ErrNotFound si el perfil no
// existe; jamás lo crea silenciosamente.
func (g *Gateway) Update(ctx context.Context, subjectID string, u Update) error {
	fields := docstore.Document{
		"updatedAt": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if u.DisplayName != nil {
		fields["displayName"] = *u.DisplayName
	}
	if u.Role != nil {
		fields["role"] = string(*u.Role)
	}
	if u.RoleSelectionComplete != nil {
		fields["roleSelectionComplete"] = *u.RoleSelectionComplete
	}
	if u.FacilityName != nil {
		fields["facilityName"] = *u.FacilityName
	}
	if u.LicenseNumber != nil {
		fields["licenseNumber"] = *u.LicenseNumber
	}
	if u.Specialization != nil {
		fields["specialization"] = *u.Specialization
	}

	err := g.db.Update(ctx, usersCollection, subjectID, fields)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("profile: update %s: %w", subjectID, err)
	}
	return nil
}

// encode arma el documento omitiendo campos lógicamente ausentes.
func encode(p *Profile) docstore.Document {
	doc := docstore.Document{
		"subjectId":             p.SubjectID,
		"email":                 p.Email,
		"roleSelectionComplete": p.RoleSelectionComplete,
		"provider":              string(p.Provider),
		"createdAt":             p.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt":             p.UpdatedAt.Format(time.RFC3339Nano),
	}
	if p.DisplayName != "" {
		doc["displayName"] = p.DisplayName
	}
	if p.Role != "" {
		doc["role"] = string(p.Role)
	}
	if p.ProviderLinkage != "" {
		doc["providerLinkage"] = p.ProviderLinkage
	}
	if p.FacilityName != "" {
		doc["facilityName"] = p.FacilityName
	}
	if p.LicenseNumber != "" {
		doc["licenseNumber"] = p.LicenseNumber
	}
	if p.Specialization != "" {
		doc["specialization"] = p.Specialization
	}
	return doc
}

// decode es tolerante: campos desconocidos se ignoran y los opcionales
// ausentes quedan en su valor cero.
func decode(subjectID string, doc docstore.Document) *Profile {
	p := &Profile{SubjectID: subjectID}
	if v, ok := doc["subjectId"].(string); ok && v != "" {
		p.SubjectID = v
	}
	p.Email, _ = doc["email"].(string)
	p.DisplayName, _ = doc["displayName"].(string)
	if v, ok := doc["role"].(string); ok {
		p.Role = Role(v)
	}
	p.RoleSelectionComplete, _ = doc["roleSelectionComplete"].(bool)
	if v, ok := doc["provider"].(string); ok {
		p.Provider = identity.Provider(v)
	}
	p.ProviderLinkage, _ = doc["providerLinkage"].(string)
	p.FacilityName, _ = doc["facilityName"].(string)
	p.LicenseNumber, _ = doc["licenseNumber"].(string)
	p.Specialization, _ = doc["specialization"].(string)
	p.CreatedAt = parseTime(doc["createdAt"])
	p.UpdatedAt = parseTime(doc["updatedAt"])
	return p
}

func parseTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
