package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_CreateIsExclusive(t *testing.T) {
	s := NewMemory("t")
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "users", "u1", Document{"a": "1"}))
	err := s.Create(ctx, "users", "u1", Document{"a": "2"})
	require.ErrorIs(t, err, ErrExists)

	// El documento original sobrevive al intento duplicado.
	doc, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	require.Equal(t, "1", doc["a"])
}

func TestMemory_GetNotFound(t *testing.T) {
	s := NewMemory("")
	_, err := s.Get(context.Background(), "users", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateMergesWithoutCreating(t *testing.T) {
	s := NewMemory("")
	ctx := context.Background()

	err := s.Update(ctx, "users", "ghost", Document{"a": "1"})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Create(ctx, "users", "u1", Document{"a": "1", "b": "x"}))
	require.NoError(t, s.Update(ctx, "users", "u1", Document{"b": "y", "c": "new"}))

	doc, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	require.Equal(t, "1", doc["a"]) // intacto
	require.Equal(t, "y", doc["b"]) // pisado
	require.Equal(t, "new", doc["c"])
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	s := NewMemory("")
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "users", "u1", Document{"a": "1"}))
	require.NoError(t, s.Delete(ctx, "users", "u1"))
	require.NoError(t, s.Delete(ctx, "users", "u1"))

	_, err := s.Get(ctx, "users", "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_CollectionsAreIsolated(t *testing.T) {
	s := NewMemory("")
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "users", "k", Document{"kind": "user"}))
	require.NoError(t, s.Create(ctx, "accounts", "k", Document{"kind": "account"}))

	u, err := s.Get(ctx, "users", "k")
	require.NoError(t, err)
	require.Equal(t, "user", u["kind"])
}
