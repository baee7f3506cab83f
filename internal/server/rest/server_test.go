package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

const testSecret = "test-secret"

// newTestServer wires the full stack on in-memory repositories.
func newTestServer(t *testing.T, tokenValidity time.Duration) (*Server, http.Handler) {
	t.Helper()

	cfg := &config.Config{
		EndpointAddr:          ":0",
		SecretKey:             testSecret,
		TokenValidityDuration: tokenValidity,
	}

	m := repomanager.NewInMemoryRepositoryManager()
	us := services.NewUserService(nil, m, cfg)
	ts := services.NewTaskService(nil, m)
	s := NewServer(logging.NopLogger{}, us, ts, auth.NewBlacklist(), cfg)
	return s, s.routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

// registerUser is a shortcut for tests that need an authenticated session.
func registerUser(t *testing.T, h http.Handler, username string) string {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/api/users/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	return decodeBody[sessionResponse](t, rr).Token
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	rr := doJSON(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	require.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, rr))
}

func TestUnknownRouteReturnsUniformError(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	rr := doJSON(t, h, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	body := decodeBody[errorBody](t, rr)
	require.Equal(t, http.StatusNotFound, body.Status)
	require.Equal(t, "Not Found", body.Error)
	require.NotNil(t, body.FieldErrors)
	require.Empty(t, body.FieldErrors)
	require.NotEmpty(t, body.Timestamp)
}

func TestStatsCountsUsers(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	rr := doJSON(t, h, http.MethodGet, "/api/public/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 0, decodeBody[map[string]int64](t, rr)["users"])

	registerUser(t, h, "alice")
	registerUser(t, h, "bob")

	rr = doJSON(t, h, http.MethodGet, "/api/public/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 2, decodeBody[map[string]int64](t, rr)["users"])
}

func TestRequestIDHeader(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	rr := doJSON(t, h, http.MethodGet, "/health", nil)
	require.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
