package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/auth"
	healthctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/health"
	sessctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/session"
	sessionsvc "github.com/mlsniperpro/mediquestai/internal/http/services/session"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/password"
	"github.com/mlsniperpro/mediquestai/internal/profile"
	"github.com/mlsniperpro/mediquestai/internal/profile/docstore"
	core "github.com/mlsniperpro/mediquestai/internal/session"
)

type testEnv struct {
	srv *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := docstore.NewMemory("")
	gateway := profile.NewGateway(db)
	ensurer := profile.NewEnsurer(gateway)

	pw := password.New(password.Config{
		Accounts: password.NewAccountStore(db),
		BaseURL:  "https://app.example.com",
		ResetTTL: time.Hour,
	})

	sessions := sessionsvc.NewManager(sessionsvc.Config{
		Secret: "test-secret",
		TTL:    time.Hour,
		Factory: func() *core.Reconciler {
			return core.New(gateway, core.WithResolver(ensurer))
		},
	})

	h := New(Deps{
		Auth:          authctl.NewController(pw, sessions),
		Session:       sessctl.NewController(sessions),
		Health:        healthctl.NewController(db),
		GoogleEnabled: true,
		ICPEnabled:    true,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv}
}

func (e *testEnv) post(t *testing.T, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (e *testEnv) get(t *testing.T, path, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func session(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	s, ok := body["session"].(map[string]any)
	require.True(t, ok, "response must carry a session: %v", body)
	return s
}

func TestRegisterRoleSelectionLogoutFlow(t *testing.T) {
	e := newTestEnv(t)

	// Registro: crea cuenta y entra directo a role selection.
	resp, body := e.post(t, "/v1/auth/register", "", map[string]any{
		"email":       "ana@example.com",
		"password":    "s3cret-pass",
		"displayName": "Ana",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	s := session(t, body)
	require.Equal(t, "role_selection_pending", s["state"])
	require.Equal(t, true, s["needsRoleSelection"])

	// Selección de rol -> Ready.
	resp, body = e.post(t, "/v1/session/role", token, map[string]any{
		"role":          "healthcare_professional",
		"licenseNumber": "MN-12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ready", body["state"])
	prof := body["profile"].(map[string]any)
	require.Equal(t, "healthcare_professional", prof["role"])
	require.Equal(t, "MN-12345", prof["licenseNumber"])

	// Snapshot vigente.
	resp, body = e.get(t, "/v1/session", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ready", body["state"])

	// Logout -> SignedOut.
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/v1/session/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	lresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	lresp.Body.Close()
	require.Equal(t, http.StatusNoContent, lresp.StatusCode)

	resp, body = e.get(t, "/v1/session", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "signed_out", body["state"])
}

func TestLogin_ReturningUserIsReady(t *testing.T) {
	e := newTestEnv(t)

	_, body := e.post(t, "/v1/auth/register", "", map[string]any{
		"email": "ana@example.com", "password": "s3cret-pass",
	})
	token := body["token"].(string)
	e.post(t, "/v1/session/role", token, map[string]any{"role": "individual"})

	// Login nuevo (sesión nueva): el perfil ya completó el rol.
	resp, body := e.post(t, "/v1/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := session(t, body)
	require.Equal(t, "ready", s["state"])
	require.Equal(t, false, s["needsRoleSelection"])
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.post(t, "/v1/auth/login", "", map[string]any{
		"email": "nadie@example.com", "password": "whatever",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "INVALID_CREDENTIALS", body["code"])
}

func TestICPLogin(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.post(t, "/v1/auth/icp", "", map[string]any{
		"principal": "abcd1234",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := session(t, body)
	require.Equal(t, "role_selection_pending", s["state"])
	require.Equal(t, "icp_abcd1234", s["subjectId"])
	prof := s["profile"].(map[string]any)
	require.Equal(t, "abcd1234@icp.identity", prof["email"])
	require.Equal(t, "ICP User abcd1234...", prof["displayName"])
}

func TestICPLogin_AnonymousRejected(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.post(t, "/v1/auth/icp", "", map[string]any{
		"principal":   "2vxsx-fae",
		"isAnonymous": true,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "ANONYMOUS_PRINCIPAL", body["code"])
}

func TestGoogleLogin_PopupClosed(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.post(t, "/v1/auth/google", "", map[string]any{
		"popupClosed": true,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "POPUP_CLOSED", body["code"])
}

func TestGoogleLogin_OK(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.post(t, "/v1/auth/google", "", map[string]any{
		"sub":   "goog-1",
		"email": "ana@gmail.com",
		"name":  "Ana",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := session(t, body)
	require.Equal(t, "role_selection_pending", s["state"])
	require.Equal(t, "google", s["provider"])
}

func TestRoleSelection_InvalidRole(t *testing.T) {
	e := newTestEnv(t)

	_, body := e.post(t, "/v1/auth/register", "", map[string]any{
		"email": "ana@example.com", "password": "s3cret-pass",
	})
	token := body["token"].(string)

	resp, body := e.post(t, "/v1/session/role", token, map[string]any{"role": "superadmin"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "ROLE_INVALID", body["code"])

	resp, body = e.post(t, "/v1/session/role", token, map[string]any{"role": "healthcare_professional"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "LICENSE_NUMBER_REQUIRED", body["code"])
}

func TestSession_RequiresToken(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.get(t, "/v1/session", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = e.get(t, "/v1/session", "garbage-token")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.get(t, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])

	resp, body = e.get(t, "/readyz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ready", body["status"])
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.get(t, "/v1/nope", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "ROUTE_NOT_FOUND", body["code"])
}
