package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures what the fake API received
type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func fakeAPI(t *testing.T, status int, reply string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var got []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		got = append(got, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&nopWriter{})
	cmd.SetErr(&nopWriter{})
	return cmd.Execute()
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestLoginSavesToken(t *testing.T) {
	srv, got := fakeAPI(t, http.StatusOK, `{"account":{"id":1,"name":"admin","admin_level":2},"token":"tok123","expires_at":"2024-01-01T12:00:00Z"}`)
	tokenFile := filepath.Join(t.TempDir(), "token")

	err := run(t, "--server", srv.URL, "--token-file", tokenFile, "-o", "json",
		"login", "--name", "admin", "--pass", "hunter22")
	require.NoError(t, err)

	require.Len(t, *got, 1)
	assert.Equal(t, http.MethodPost, (*got)[0].Method)
	assert.Equal(t, "/api/v1/admin/login", (*got)[0].Path)
	assert.Equal(t, map[string]any{"name": "admin", "password": "hunter22"}, (*got)[0].Body)

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok123", string(data))
}

func TestCommandsSendStoredToken(t *testing.T) {
	srv, got := fakeAPI(t, http.StatusOK, `{}`)
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("tok123\n"), 0600))

	tests := []struct {
		args   []string
		method string
		path   string
		body   map[string]any
	}{
		{[]string{"online"}, http.MethodGet, "/api/v1/online", nil},
		{[]string{"character", "get", "7"}, http.MethodGet, "/api/v1/characters/7", nil},
		{[]string{"character", "by-name", "Alice Smith"}, http.MethodGet, "/api/v1/characters/by-name/Alice%20Smith", nil},
		{[]string{"character", "by-number", "1234567"}, http.MethodGet, "/api/v1/characters/by-number/1234567", nil},
		{[]string{"money", "set", "7", "--amount", "50"}, http.MethodPut, "/api/v1/characters/7/money", map[string]any{"money": 50.0}},
		{[]string{"money", "add", "7", "--amount", "-5"}, http.MethodPost, "/api/v1/characters/7/money/add", map[string]any{"amount": -5.0}},
		{[]string{"job", "set", "7", "--job", "3"}, http.MethodPut, "/api/v1/characters/7/job", map[string]any{"job": 3.0}},
		{[]string{"notify", "7", "--message", "hi"}, http.MethodPost, "/api/v1/characters/7/notify", map[string]any{"message": "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			*got = nil
			args := append([]string{"--server", srv.URL, "--token-file", tokenFile, "-o", "json"}, tt.args...)
			require.NoError(t, run(t, args...))

			require.Len(t, *got, 1)
			assert.Equal(t, tt.method, (*got)[0].Method)
			assert.Equal(t, tt.path, (*got)[0].Path)
			assert.Equal(t, "Bearer tok123", (*got)[0].Auth)
			assert.Equal(t, tt.body, (*got)[0].Body)
		})
	}
}

func TestInvalidCharacterID(t *testing.T) {
	srv, got := fakeAPI(t, http.StatusOK, `{}`)

	err := run(t, "--server", srv.URL, "--token", "t", "character", "get", "abc")
	assert.Error(t, err)
	assert.Empty(t, *got)
}

func TestAPIErrorIsReported(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusNotFound, `{"error":{"code":"CHARACTER_NOT_FOUND","message":"Character not found"}}`)

	err := run(t, "--server", srv.URL, "--token", "t", "-o", "json", "character", "get", "404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHARACTER_NOT_FOUND")
}

func TestAPIErrorCarriesStatus(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusForbidden, `{"error":{"code":"FORBIDDEN","message":"Admin level too low"}}`)

	c := NewClient(srv.URL, "t", time.Second)
	err := c.Get("/api/v1/online", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
}

func TestVerboseTracesRequests(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, `{"status":"ok","online":2}`)

	var trace bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--server", srv.URL, "--token", "t", "-v", "health"})
	cmd.SetOut(&nopWriter{})
	cmd.SetErr(&trace)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, trace.String(), "GET "+srv.URL+"/api/v1/health -> 200")
}

func TestHealthFailsWhenDegraded(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusServiceUnavailable, `{"status":"degraded","online":0}`)

	err := run(t, "--server", srv.URL, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"server scheme", []string{"--server", "ftp://x", "health"}},
		{"output", []string{"--server", "http://localhost:1", "-o", "yaml", "health"}},
		{"timeout", []string{"--server", "http://localhost:1", "--timeout", "0s", "health"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(t, tt.args...))
		})
	}
}
