package icp

import (
	"context"
	"errors"
	"testing"

	"github.com/mlsniperpro/mediquestai/internal/identity"
)

func TestSubjectID_Deterministic(t *testing.T) {
	if got := SubjectID("abcd1234"); got != "icp_abcd1234" {
		t.Fatalf("unexpected subject id: %q", got)
	}
	if SubjectID("abcd1234") != SubjectID("abcd1234") {
		t.Fatal("same principal must always produce the same subject id")
	}
}

func TestPlaceholderEmail(t *testing.T) {
	if got := PlaceholderEmail("abcd1234"); got != "abcd1234@icp.identity" {
		t.Fatalf("unexpected placeholder email: %q", got)
	}
}

func TestDisplayName_TruncatesPrincipal(t *testing.T) {
	if got := DisplayName("abcd1234-efgh5678"); got != "ICP User abcd1234..." {
		t.Fatalf("unexpected display name: %q", got)
	}
	// Principals cortos no se truncan, pero el sufijo queda igual.
	if got := DisplayName("abc"); got != "ICP User abc..." {
		t.Fatalf("unexpected display name for short principal: %q", got)
	}
}

type fakeClient struct {
	res       *LoginResult
	loginErr  error
	logoutErr error
	logouts   int
}

func (f *fakeClient) Login(ctx context.Context) (*LoginResult, error) {
	return f.res, f.loginErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.logouts++
	return f.logoutErr
}

func TestAuthenticate_NormalizesCredential(t *testing.T) {
	a := New(&fakeClient{res: &LoginResult{PrincipalText: "abcd1234"}})

	cred, err := a.Authenticate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cred.Provider != identity.ProviderICP {
		t.Fatalf("unexpected provider: %q", cred.Provider)
	}
	if cred.SubjectID != "icp_abcd1234" {
		t.Fatalf("unexpected subject id: %q", cred.SubjectID)
	}
	if cred.Email != "abcd1234@icp.identity" {
		t.Fatalf("unexpected email: %q", cred.Email)
	}
	if cred.DisplayNameHint != "ICP User abcd1234..." {
		t.Fatalf("unexpected display name hint: %q", cred.DisplayNameHint)
	}
	if cred.Verification != "abcd1234" {
		t.Fatalf("unexpected verification: %q", cred.Verification)
	}
}

func TestAuthenticate_RejectsAnonymousPrincipal(t *testing.T) {
	a := New(&fakeClient{res: &LoginResult{PrincipalText: "2vxsx-fae", IsAnonymous: true}})

	_, err := a.Authenticate(context.Background())
	if !errors.Is(err, ErrAnonymousPrincipal) {
		t.Fatalf("expected ErrAnonymousPrincipal, got %v", err)
	}
}

func TestAuthenticate_WrapsLoginFailure(t *testing.T) {
	a := New(&fakeClient{loginErr: errors.New("network down")})

	_, err := a.Authenticate(context.Background())
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	fc := &fakeClient{}
	a := New(fc)
	if err := a.Invalidate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if fc.logouts != 1 {
		t.Fatalf("expected 1 logout call, got %d", fc.logouts)
	}

	fc.logoutErr = errors.New("gateway unreachable")
	if err := a.Invalidate(context.Background()); !errors.Is(err, ErrLogoutFailed) {
		t.Fatalf("expected ErrLogoutFailed, got %v", err)
	}
}
