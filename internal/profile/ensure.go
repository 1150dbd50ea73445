package profile

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
	"github.com/mlsniperpro/mediquestai/internal/observability/metrics"
)

// Ensurer resuelve "get or create" de perfiles de forma idempotente.
// Logins concurrentes del mismo sujeto colapsan en un solo vuelo
// (singleflight) y una colisión ErrAlreadyExists en Create se trata como
// éxito re-leyendo: nunca se propaga la carrera al usuario.
type Ensurer struct {
	store Store
	sf    singleflight.Group
}

// NewEnsurer crea un Ensurer sobre el Store dado.
func NewEnsurer(store Store) *Ensurer {
	return &Ensurer{store: store}
}

type ensureResult struct {
	profile *Profile
	created bool
}

// Ensure retorna el perfil del sujeto, creándolo si no existe.
// created=true solo para el llamador cuyo vuelo hizo la creación.
func (e *Ensurer) Ensure(ctx context.Context, cred identity.Credential) (*Profile, bool, error) {
	v, err, _ := e.sf.Do(cred.SubjectID, func() (any, error) {
		p, created, err := e.ensure(ctx, cred)
		if err != nil {
			return nil, err
		}
		return ensureResult{profile: p, created: created}, nil
	})
	if err != nil {
		return nil, false, err
	}
	r := v.(ensureResult)
	return r.profile, r.created, nil
}

func (e *Ensurer) ensure(ctx context.Context, cred identity.Credential) (*Profile, bool, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Ensurer.ensure"),
		logger.SubjectID(cred.SubjectID))

	p, err := e.store.Read(ctx, cred.SubjectID)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	fresh := newFromCredential(cred)
	if err := e.store.Create(ctx, fresh); err != nil {
		if !errors.Is(err, ErrAlreadyExists) {
			return nil, false, err
		}
		// Carrera benigna: otro login del mismo sujeto ganó la creación.
		log.Debug("profile creation lost race, re-reading")
		p, err := e.store.Read(ctx, cred.SubjectID)
		if err != nil {
			return nil, false, err
		}
		return p, false, nil
	}
	metrics.ProfilesCreated.Inc()

	// Re-leer lo guardado; si la lectura falla justo después de crear,
	// devolvemos la construcción optimista en vez de fallar el login.
	p, err = e.store.Read(ctx, cred.SubjectID)
	if err != nil {
		log.Warn("re-read after create failed, using optimistic profile", logger.Err(err))
		return fresh, true, nil
	}
	return p, true, nil
}

// newFromCredential arma el perfil inicial de un sujeto nuevo.
// Un perfil recién creado nunca está role-complete.
func newFromCredential(cred identity.Credential) *Profile {
	email := cred.Email
	if email == "" {
		// Placeholder determinístico: el mismo subjectID siempre
		// produce el mismo email, así los re-logins son idempotentes.
		email = cred.SubjectID + "@users.mediquest.id"
	}
	return &Profile{
		SubjectID:             cred.SubjectID,
		Email:                 email,
		DisplayName:           cred.DisplayNameHint,
		RoleSelectionComplete: false,
		Provider:              cred.Provider,
		ProviderLinkage:       cred.Verification,
	}
}
