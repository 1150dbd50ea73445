package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mlsniperpro/mediquestai/internal/profile"
	"github.com/mlsniperpro/mediquestai/internal/profile/docstore"
	core "github.com/mlsniperpro/mediquestai/internal/session"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(Config{
		Secret: "test-secret",
		TTL:    ttl,
		Factory: func() *core.Reconciler {
			return core.New(profile.NewGateway(docstore.NewMemory("")))
		},
	})
}

func TestCreateResolveRoundtrip(t *testing.T) {
	m := newTestManager(time.Hour)

	token, rec, err := m.Create(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, rec)

	got, err := m.Resolve(token)
	require.NoError(t, err)
	// El token localiza exactamente el mismo Reconciler.
	require.Same(t, rec, got)
}

func TestResolve_EachSessionIsIsolated(t *testing.T) {
	m := newTestManager(time.Hour)
	ctx := context.Background()

	t1, r1, err := m.Create(ctx)
	require.NoError(t, err)
	t2, r2, err := m.Create(ctx)
	require.NoError(t, err)
	require.NotSame(t, r1, r2)

	g1, err := m.Resolve(t1)
	require.NoError(t, err)
	g2, err := m.Resolve(t2)
	require.NoError(t, err)
	require.Same(t, r1, g1)
	require.Same(t, r2, g2)
}

func TestResolve_GarbageToken(t *testing.T) {
	m := newTestManager(time.Hour)

	_, err := m.Resolve("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResolve_TamperedSignature(t *testing.T) {
	m := newTestManager(time.Hour)
	token, _, err := m.Create(context.Background())
	require.NoError(t, err)

	other := NewManager(Config{
		Secret:  "other-secret",
		TTL:     time.Hour,
		Factory: func() *core.Reconciler { return nil },
	})
	_, err = other.Resolve(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResolve_ExpiredToken(t *testing.T) {
	m := newTestManager(time.Millisecond)
	token, _, err := m.Create(context.Background())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = m.Resolve(token)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestResolve_ValidTokenEvictedSession(t *testing.T) {
	m := newTestManager(time.Hour)
	token, _, err := m.Create(context.Background())
	require.NoError(t, err)

	// Firma válida pero la sesión ya no vive en el registro.
	sid, err := m.parse(token)
	require.NoError(t, err)
	m.live.Delete(sid)

	_, err = m.Resolve(token)
	require.ErrorIs(t, err, ErrSessionExpired)
}
