package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/raflibima25/go-electroshop/internal/config"
	"github.com/raflibima25/go-electroshop/internal/server"
)

// Seeded accounts
const (
	AdminEmail    = "admin@e2e.local"
	AdminPassword = "admin-e2e"
	UserEmail     = "jane@e2e.local"
	UserPassword  = "jane-e2e"
)

// API is a storefront API running in-process on a fresh database
type API struct {
	URL      string // Base URL including the /api prefix
	JWTToken string // Set after Login
}

// StartAPI starts the API server on a temporary sqlite database
func StartAPI(t *testing.T) *API {
	t.Helper()

	cfg := config.ServerConfig{
		DatabaseURL:       filepath.Join(t.TempDir(), "electroshop.sqlite"),
		JWTSecret:         "e2e-secret",
		JWTTTL:            time.Hour,
		SeedAdminEmail:    AdminEmail,
		SeedAdminPassword: AdminPassword,
		SeedUserEmail:     UserEmail,
		SeedUserPassword:  UserPassword,
	}

	srv, err := server.New(cfg, zerolog.Nop())
	require.NoError(t, err, "Failed to create API server")

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		if sqlDB, err := srv.GetDB().DB(); err == nil {
			sqlDB.Close()
		}
	})

	api := &API{URL: ts.URL + "/api"}
	api.waitForAPI(t)
	return api
}

// Login stores a token for subsequent APICall requests
func (a *API) Login(t *testing.T, email, password string) {
	t.Helper()

	resp := a.APICall(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	data := resp["data"].(map[string]interface{})
	a.JWTToken = data["access_token"].(string)
}

// APICall makes an HTTP request and returns the decoded envelope. Non-2xx
// responses fail the test.
func (a *API) APICall(t *testing.T, method, path string, body interface{}) map[string]interface{} {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, a.URL+path, reqBody)
	require.NoError(t, err, "Failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.JWTToken != "" {
		req.Header.Set("Authorization", "Bearer "+a.JWTToken)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "Request failed: %s %s", method, path)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	require.True(t, resp.StatusCode >= 200 && resp.StatusCode < 300,
		"API call failed: %s %s\nStatus: %d\nBody: %s",
		method, path, resp.StatusCode, string(respBody))

	var result map[string]interface{}
	err = json.Unmarshal(respBody, &result)
	require.NoError(t, err, "Failed to unmarshal response: %s", string(respBody))

	return result
}

// WaitForCondition polls condition until it returns true or timeout elapses
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("Condition not met within %v", timeout)
}

func (a *API) waitForAPI(t *testing.T) {
	t.Helper()

	WaitForCondition(t, 5*time.Second, func() bool {
		resp, err := http.Get(a.URL + "/health-check")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})
}
