package google

import (
	"context"
	"errors"
	"testing"

	"github.com/mlsniperpro/mediquestai/internal/identity"
)

type fakeFlow struct {
	res *ConsentResult
	err error
}

func (f fakeFlow) OpenConsentPopup(ctx context.Context) (*ConsentResult, error) {
	return f.res, f.err
}

func TestAuthenticate_NormalizesCredential(t *testing.T) {
	a := New(fakeFlow{res: &ConsentResult{
		SubjectID:   "goog-123",
		Email:       "ana@example.com",
		DisplayName: "Ana",
	}})

	cred, err := a.Authenticate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cred.Provider != identity.ProviderGoogle {
		t.Fatalf("unexpected provider: %q", cred.Provider)
	}
	if cred.SubjectID != "goog-123" || cred.Email != "ana@example.com" || cred.DisplayNameHint != "Ana" {
		t.Fatalf("unexpected credential: %+v", cred)
	}
}

func TestAuthenticate_PopupClosedPassesThrough(t *testing.T) {
	a := New(fakeFlow{err: ErrPopupClosed})

	_, err := a.Authenticate(context.Background())
	if !errors.Is(err, ErrPopupClosed) {
		t.Fatalf("expected ErrPopupClosed, got %v", err)
	}
}

func TestAuthenticate_WrapsProviderError(t *testing.T) {
	a := New(fakeFlow{err: errors.New("token exchange failed")})

	_, err := a.Authenticate(context.Background())
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestAuthenticate_SynthesizesEmailWhenMissing(t *testing.T) {
	a := New(fakeFlow{res: &ConsentResult{SubjectID: "goog-456"}})

	cred, err := a.Authenticate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cred.Email != "goog-456@oauth.mediquest.id" {
		t.Fatalf("unexpected placeholder email: %q", cred.Email)
	}
}
