package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricare/authcore/app"
	"github.com/nutricare/authcore/pkg/httpserver"
	"github.com/nutricare/authcore/pkg/password"
	"github.com/nutricare/authcore/svc/identity"
	"github.com/nutricare/authcore/svc/session"
)

func testConfig() app.Config {
	return app.Config{
		Env:          "development",
		FrontendURL:  "http://app.example.com",
		PasswordCost: 4,
		Session:      session.Config{Secret: "router-secret"},
	}
}

func newServer(t *testing.T, store identity.Store, probes ...httpserver.Probe) *httptest.Server {
	t.Helper()
	h, err := app.NewRouter(testConfig(), app.Deps{Store: store, Probes: probes}, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func TestNewRouterRequiresSecret(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Session.Secret = ""
	_, err := app.NewRouter(cfg, app.Deps{Store: identity.NewMemoryStore()}, nil)
	assert.Error(t, err)
}

func TestPatientJourney(t *testing.T) {
	t.Parallel()
	srv := newServer(t, identity.NewMemoryStore())

	resp, _ := send(t, http.MethodPost, srv.URL+"/api/auth/register", "",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","password":"first-pass","dob":"1990-04-01"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body := send(t, http.MethodPost, srv.URL+"/api/auth/login", "",
		`{"email":"jane@example.com","password":"first-pass"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	resp, body = send(t, http.MethodGet, srv.URL+"/api/auth/verify", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user", body["user"].(map[string]any)["role"])

	resp, body = send(t, http.MethodPost, srv.URL+"/api/consultations/schedule", token,
		`{"patientName":"Jane","startTime":"2025-03-10T10:00:00Z","endTime":"2025-03-10T10:30:00Z"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Access denied. Required roles: doctor, your role: user", body["message"])

	resp, _ = send(t, http.MethodPut, srv.URL+"/api/users/password", token,
		`{"currentPassword":"first-pass","newPassword":"second-pass"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = send(t, http.MethodPost, srv.URL+"/api/auth/login", "",
		`{"email":"jane@example.com","password":"first-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = send(t, http.MethodPost, srv.URL+"/api/auth/login", "",
		`{"email":"jane@example.com","password":"second-pass"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClinicianCalendarState(t *testing.T) {
	t.Parallel()
	store := identity.NewMemoryStore()
	hash, err := password.NewHasher(password.WithCost(4)).Hash("doc-pass")
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), identity.NewClinician(&identity.ClinicianAccount{
		FirstName:    "Asha",
		Email:        "asha@clinic.example",
		PasswordHash: hash,
	})))
	srv := newServer(t, store)

	_, body := send(t, http.MethodPost, srv.URL+"/api/auth/login", "",
		`{"email":"asha@clinic.example","password":"doc-pass"}`)
	token := body["token"].(string)

	resp, body := send(t, http.MethodGet, srv.URL+"/api/consultations/calendar", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unconfigured", body["state"])

	resp, body = send(t, http.MethodPost, srv.URL+"/api/consultations/schedule", token,
		`{"patientName":"Jane","startTime":"2025-03-10T10:00:00Z","endTime":"2025-03-10T10:30:00Z"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Google OAuth not configured", body["message"])
	assert.NotEmpty(t, body["error"], "development mode exposes the cause")
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()
	failing := httpserver.Probe{Name: "mongo", Check: func(context.Context) error { return errors.New("down") }}
	srv := newServer(t, identity.NewMemoryStore(), failing)

	resp, _ := send(t, http.MethodGet, srv.URL+"/health/live", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := send(t, http.MethodGet, srv.URL+"/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "not_ready", body["status"])

	send(t, http.MethodPost, srv.URL+"/api/auth/login", "", `{"email":"ghost@example.com","password":"x"}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "login")
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	srv := newServer(t, identity.NewMemoryStore())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
