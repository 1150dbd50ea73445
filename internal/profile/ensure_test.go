package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/profile/docstore"
)

func icpCred() identity.Credential {
	return identity.Credential{
		Provider:        identity.ProviderICP,
		SubjectID:       "icp_abcd1234",
		Email:           "abcd1234@icp.identity",
		DisplayNameHint: "ICP User abcd1234...",
		Verification:    "abcd1234",
	}
}

func TestEnsure_CreatesOnFirstLogin(t *testing.T) {
	e := NewEnsurer(NewGateway(docstore.NewMemory("")))

	p, created, err := e.Ensure(context.Background(), icpCred())
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "icp_abcd1234", p.SubjectID)
	require.Equal(t, "abcd1234@icp.identity", p.Email)
	// Un perfil recién creado nunca está role-complete.
	require.False(t, p.RoleSelectionComplete)
	require.Empty(t, p.Role)
}

func TestEnsure_SecondLoginIsIdempotent(t *testing.T) {
	e := NewEnsurer(NewGateway(docstore.NewMemory("")))
	ctx := context.Background()

	first, created, err := e.Ensure(ctx, icpCred())
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := e.Ensure(ctx, icpCred())
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.SubjectID, second.SubjectID)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestEnsure_PlaceholderEmailWhenCredentialHasNone(t *testing.T) {
	e := NewEnsurer(NewGateway(docstore.NewMemory("")))

	p, _, err := e.Ensure(context.Background(), identity.Credential{
		Provider:  identity.ProviderGoogle,
		SubjectID: "goog-1",
	})
	require.NoError(t, err)
	require.Equal(t, "goog-1@users.mediquest.id", p.Email)
}

// raceStore simula la carrera de creación: el Read inicial dice "no existe"
// pero el Create choca con un documento que otro login ya escribió.
type raceStore struct {
	inner   Store
	mu      sync.Mutex
	reads   int
	creates int
}

func (r *raceStore) Read(ctx context.Context, id string) (*Profile, error) {
	r.mu.Lock()
	r.reads++
	first := r.reads == 1
	r.mu.Unlock()
	if first {
		return nil, ErrNotFound
	}
	return r.inner.Read(ctx, id)
}

func (r *raceStore) Create(ctx context.Context, p *Profile) error {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	return ErrAlreadyExists
}

func (r *raceStore) Update(ctx context.Context, id string, u Update) error {
	return r.inner.Update(ctx, id, u)
}

func TestEnsure_CreateRaceIsBenign(t *testing.T) {
	inner := NewGateway(docstore.NewMemory(""))
	ctx := context.Background()

	// Otro login ya creó el perfil.
	require.NoError(t, inner.Create(ctx, &Profile{
		SubjectID: "icp_abcd1234",
		Email:     "abcd1234@icp.identity",
	}))

	rs := &raceStore{inner: inner}
	e := NewEnsurer(rs)

	p, created, err := e.Ensure(ctx, icpCred())
	require.NoError(t, err)
	// La colisión se trata como éxito del otro vuelo: nada de esto le
	// llega al usuario.
	require.False(t, created)
	require.Equal(t, "icp_abcd1234", p.SubjectID)
	require.Equal(t, 1, rs.creates)
}

// failStore siempre falla las lecturas.
type failStore struct{ Store }

func (failStore) Read(ctx context.Context, id string) (*Profile, error) {
	return nil, errors.New("backend down")
}

func TestEnsure_ReadFailurePropagates(t *testing.T) {
	e := NewEnsurer(failStore{})

	_, _, err := e.Ensure(context.Background(), icpCred())
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
}
