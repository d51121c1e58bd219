//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// getEnv returns an environment variable or a fallback value.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// waitForService polls a URL until it's healthy or timeout is reached.
func waitForService(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return nil
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("service not ready after %v", timeout)
}

// apiRequest performs a JSON request against the board and returns the response.
// token may be empty for unauthenticated endpoints.
func apiRequest(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, boardURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals the response body and closes it.
func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// loginAdmin signs in the bootstrap admin, registering it first if needed.
func loginAdmin(t *testing.T) string {
	t.Helper()

	creds := map[string]string{"email": adminEmail, "password": adminPassword}

	resp := apiRequest(t, "POST", "/api/auth/signup", "", creds)
	resp.Body.Close()
	require.Contains(t, []int{http.StatusCreated, http.StatusConflict}, resp.StatusCode,
		"bootstrap admin signup should succeed or already exist")

	resp = apiRequest(t, "POST", "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token   string `json:"token"`
		Profile struct {
			Role string `json:"role"`
		} `json:"profile"`
	}
	decodeBody(t, resp, &login)
	require.Equal(t, "admin", login.Profile.Role,
		"server must be started with BOOTSTRAP_ADMIN_EMAIL=%s", adminEmail)
	return login.Token
}

// signupUser registers a throwaway user account and returns its token and ID.
func signupUser(t *testing.T, email string) (token, id string) {
	t.Helper()

	creds := map[string]string{"email": email, "password": "e2e-password-123"}

	resp := apiRequest(t, "POST", "/api/auth/signup", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var profile struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &profile)

	resp = apiRequest(t, "POST", "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	return login.Token, profile.ID
}

// createZone makes a zone via the admin API and returns its ID.
func createZone(t *testing.T, adminToken, title, description string) string {
	t.Helper()

	resp := apiRequest(t, "POST", "/api/zones", adminToken, map[string]string{
		"title":       title,
		"description": description,
		"claimed_at":  time.Now().UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var zone struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &zone)
	require.NotEmpty(t, zone.ID)

	t.Cleanup(func() {
		resp := apiRequest(t, "DELETE", "/api/zones/"+zone.ID, adminToken, nil)
		resp.Body.Close()
	})
	return zone.ID
}

// uniqueEmail builds a per-run unique address so reruns don't collide.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@e2e.example.com", prefix, time.Now().UnixNano())
}
