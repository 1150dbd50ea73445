package password

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/profile/docstore"
)

type capturingSender struct {
	to      string
	subject string
	html    string
	sends   int
}

func (c *capturingSender) Send(to, subject, htmlBody, textBody string) error {
	c.to, c.subject, c.html = to, subject, htmlBody
	c.sends++
	return nil
}

func newTestAdapter(t *testing.T) (*Adapter, *capturingSender) {
	t.Helper()
	sender := &capturingSender{}
	a := New(Config{
		Accounts: NewAccountStore(docstore.NewMemory("test")),
		Sender:   sender,
		BaseURL:  "https://app.example.com",
		ResetTTL: time.Hour,
	})
	return a, sender
}

func TestRegisterThenAuthenticate(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	cred, err := a.Register(ctx, "ana@example.com", "s3cret-pass", "Ana")
	require.NoError(t, err)
	require.Equal(t, identity.ProviderPassword, cred.Provider)
	require.NotEmpty(t, cred.SubjectID)
	require.Equal(t, "ana@example.com", cred.Email)
	require.Equal(t, "Ana", cred.DisplayNameHint)

	again, err := a.Authenticate(ctx, "ana@example.com", "s3cret-pass")
	require.NoError(t, err)
	// El subject id es estable entre logins.
	require.Equal(t, cred.SubjectID, again.SubjectID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "ana@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, "ana@example.com", "otra-cosa")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownAccount(t *testing.T) {
	a, _ := newTestAdapter(t)

	_, err := a.Authenticate(context.Background(), "nadie@example.com", "whatever")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMalformedEmail_RejectedBeforeStore(t *testing.T) {
	// El adapter valida formato antes de tocar el store: un email roto
	// jamás genera tráfico.
	a := New(Config{Accounts: NewAccountStore(explodingStore{})})
	ctx := context.Background()

	for _, email := range []string{"", "no-at-sign", "a@b@c", "  ", "ana@"} {
		_, err := a.Authenticate(ctx, email, "whatever")
		require.ErrorIs(t, err, ErrMalformedEmail, "email %q", email)

		_, err = a.Register(ctx, email, "s3cret-pass", "")
		require.ErrorIs(t, err, ErrMalformedEmail, "email %q", email)
	}
}

// explodingStore falla el test si algo lo toca.
type explodingStore struct{}

func (explodingStore) Get(ctx context.Context, c, k string) (docstore.Document, error) {
	panic("store must not be reached")
}
func (explodingStore) Create(ctx context.Context, c, k string, d docstore.Document) error {
	panic("store must not be reached")
}
func (explodingStore) Update(ctx context.Context, c, k string, d docstore.Document) error {
	panic("store must not be reached")
}
func (explodingStore) Delete(ctx context.Context, c, k string) error {
	panic("store must not be reached")
}
func (explodingStore) Ping(ctx context.Context) error { return nil }
func (explodingStore) Close() error                   { return nil }

func TestRegister_EmailTaken(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "ana@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	_, err = a.Register(ctx, "ana@example.com", "other-pass-1", "")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_WeakPassword(t *testing.T) {
	a, _ := newTestAdapter(t)

	_, err := a.Register(context.Background(), "ana@example.com", "corta", "")
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestResetFlow(t *testing.T) {
	a, sender := newTestAdapter(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "ana@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	require.NoError(t, a.RequestReset(ctx, "ana@example.com"))
	require.Equal(t, 1, sender.sends)
	require.Equal(t, "ana@example.com", sender.to)
	require.Contains(t, sender.html, "https://app.example.com/auth/reset?token=")

	// Sacamos el token del registro interno para no parsear HTML.
	var token string
	for k := range a.resetTokens.Items() {
		token = k
	}
	require.NotEmpty(t, token)

	require.NoError(t, a.ResetPassword(ctx, token, "nueva-pass-1"))

	// Password nueva funciona, la vieja no.
	_, err = a.Authenticate(ctx, "ana@example.com", "nueva-pass-1")
	require.NoError(t, err)
	_, err = a.Authenticate(ctx, "ana@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// El token es de un solo uso.
	err = a.ResetPassword(ctx, token, "otra-pass-22")
	require.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestRequestReset_UnknownEmailIsSilent(t *testing.T) {
	a, sender := newTestAdapter(t)

	// Éxito silencioso: no revela qué cuentas existen y no manda nada.
	require.NoError(t, a.RequestReset(context.Background(), "nadie@example.com"))
	require.Equal(t, 0, sender.sends)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	a, _ := newTestAdapter(t)

	err := a.ResetPassword(context.Background(), "deadbeef", "nueva-pass-1")
	require.ErrorIs(t, err, ErrResetTokenInvalid)
	require.False(t, errors.Is(err, ErrWeakPassword))
}
