package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"impact/internal/auth"
	"impact/internal/dashboard"
	"impact/internal/domain"
	"impact/internal/storage/jsonfile"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "impact.json"))
	require.NoError(t, err)
	authSvc := auth.NewService(store, "test-secret")
	return NewApp(store, authSvc, dashboard.NewService(store), zerolog.Nop())
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func register(t *testing.T, app *App, email, name, password string) string {
	t.Helper()
	rr := doJSON(t, app.Register, "POST", "/api/register", "", map[string]string{
		"email": email, "name": name, "password": password,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	body := decode(t, rr)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	rr := doJSON(t, app.Register, "POST", "/api/register", "", map[string]string{"email": "a@example.com"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "email, name, and password are required", decode(t, rr)["error"])

	rr = doJSON(t, app.Register, "POST", "/api/register", "", map[string]string{
		"email": "a@example.com", "name": "A", "password": "abc",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, decode(t, rr)["error"], "at least 6 characters")
}

func TestRegisterDuplicateEmailIs400(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Register, "POST", "/api/register", "", map[string]string{
		"email": "alice@example.com", "name": "Other", "password": "secret2",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "email already registered", decode(t, rr)["error"])
}

func TestLoginInvalidCredentialsIs401(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Login, "POST", "/api/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "invalid credentials", decode(t, rr)["error"])
}

func TestRegisterDonateDashboardScenario(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Authed(app.CreateDonation), "POST", "/api/donations", token, map[string]any{
		"organization": "X", "amount": 50, "date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotZero(t, decode(t, rr)["id"])

	rr = doJSON(t, app.Authed(app.GetDashboard), "GET", "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var dash struct {
		User  domain.User     `json:"user"`
		Stats dashboard.Stats `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&dash))
	require.Equal(t, "alice@example.com", dash.User.Email)
	require.Equal(t, 50.0, dash.Stats.TotalDonations)
}

func TestAuthedMissingTokenIs401(t *testing.T) {
	app := newTestApp(t)

	rr := doJSON(t, app.Authed(app.GetDashboard), "GET", "/api/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthedBadSignatureIs403(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "alice@example.com", "Alice", "secret1")

	// A token signed with a different secret is well-formed but forged.
	otherApp := newTestApp(t)
	otherApp.Auth = auth.NewService(otherApp.Store, "other-secret")
	forged := register(t, otherApp, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Authed(app.GetDashboard), "GET", "/api/dashboard", forged, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDashboardUserGoneIs404(t *testing.T) {
	app := newTestApp(t)
	// Token referencing a user id that was never stored.
	svc := auth.NewService(app.Store, "test-secret")
	app.Auth = svc

	// Register then point the handler at a store without that user.
	token := register(t, app, "ghost@example.com", "Ghost", "secret1")
	fresh, err := jsonfile.Open(filepath.Join(t.TempDir(), "other.json"))
	require.NoError(t, err)
	app.Dashboard = dashboard.NewService(fresh)

	rr := doJSON(t, app.Authed(app.GetDashboard), "GET", "/api/dashboard", token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateDonationMissingAmount(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Authed(app.CreateDonation), "POST", "/api/donations", token, map[string]any{
		"organization": "X", "date": "2024-01-01",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "organization, amount, and date are required", decode(t, rr)["error"])
}

func TestCreateDonationNegativeAmount(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Authed(app.CreateDonation), "POST", "/api/donations", token, map[string]any{
		"organization": "X", "amount": -5, "date": "2024-01-01",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateConversionValidation(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Authed(app.CreateConversion), "POST", "/api/conversions", token, map[string]any{
		"person_name": "Sam",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "person_name and conversion_date are required", decode(t, rr)["error"])

	rr = doJSON(t, app.Authed(app.CreateConversion), "POST", "/api/conversions", token, map[string]any{
		"person_name": "Sam", "conversion_date": "2024-03-01", "influence_type": "conversation",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreateMediaShareDefaultsReachToZero(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Authed(app.CreateMediaShare), "POST", "/api/media", token, map[string]any{
		"platform": "twitter", "content_type": "thread", "date": "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	shares, err := app.Store.ListMediaSharesByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	require.Zero(t, shares[0].ReachEstimate)
}

func TestCreateCampaignValidation(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "alice@example.com", "Alice", "secret1")

	rr := doJSON(t, app.Authed(app.CreateCampaign), "POST", "/api/campaigns", token, map[string]any{
		"campaign_name": "C",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "campaign_name, participation_type, and date are required", decode(t, rr)["error"])
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rr := doJSON(t, app.Health, "GET", "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	require.Equal(t, "ok", body["status"])
	require.Contains(t, body, "uptime_seconds")
	require.Contains(t, body, "memory")
}
