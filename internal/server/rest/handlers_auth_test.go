package rest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegisterLoginLogoutFlow(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	// Register.
	rr := doJSON(t, h, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	created := decodeBody[sessionResponse](t, rr)
	require.NotEmpty(t, created.Token)
	require.Equal(t, "alice", created.User.Username)
	require.Equal(t, "alice@example.com", created.User.Email)
	require.EqualValues(t, "USER", created.User.Role)
	require.NotZero(t, created.User.ID)

	// Registration sets the session cookie.
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.Equal(t, created.Token, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)

	// Wrong password fails with the same message as an unknown user.
	rr = doJSON(t, h, http.MethodPost, "/api/users/login", map[string]string{
		"username": "alice", "password": "wrongpass",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	wrongPass := decodeBody[errorBody](t, rr)

	rr = doJSON(t, h, http.MethodPost, "/api/users/login", map[string]string{
		"username": "nobody", "password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	unknownUser := decodeBody[errorBody](t, rr)
	require.Equal(t, wrongPass.Message, unknownUser.Message)

	// Correct credentials mint a fresh token.
	rr = doJSON(t, h, http.MethodPost, "/api/users/login", map[string]string{
		"username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	session := decodeBody[sessionResponse](t, rr)
	require.NotEmpty(t, session.Token)
	require.Equal(t, created.User.ID, session.User.ID)

	// Whoami with the fresh token.
	rr = doJSON(t, h, http.MethodGet, "/api/users/me", nil, withBearer(session.Token))
	require.Equal(t, http.StatusOK, rr.Code)
	me := decodeBody[userPayload](t, rr)
	require.Equal(t, "alice", me.Username)

	// Logout revokes the presented token and expires the cookie.
	rr = doJSON(t, h, http.MethodPost, "/api/users/logout", nil, withBearer(session.Token))
	require.Equal(t, http.StatusOK, rr.Code)
	cookies = rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.Less(t, cookies[0].MaxAge, 0)

	// The revoked token no longer authenticates.
	rr = doJSON(t, h, http.MethodGet, "/api/users/me", nil, withBearer(session.Token))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutTwiceSucceeds(t *testing.T) {
	_, h := newTestServer(t, time.Hour)
	token := registerUser(t, h, "alice")

	rr := doJSON(t, h, http.MethodPost, "/api/users/logout", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rr.Code)

	// Logging out again with the now-revoked token is a no-op success.
	rr = doJSON(t, h, http.MethodPost, "/api/users/logout", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rr.Code)

	// Every other gated endpoint still rejects it.
	rr = doJSON(t, h, http.MethodGet, "/api/users/me", nil, withBearer(token))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutStillRequiresValidToken(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	rr := doJSON(t, h, http.MethodPost, "/api/users/logout", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/api/users/logout", nil, withBearer("not.a.jwt"))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutRevokesOnlyPresentedToken(t *testing.T) {
	_, h := newTestServer(t, time.Hour)
	registerUser(t, h, "alice")

	login := func() string {
		rr := doJSON(t, h, http.MethodPost, "/api/users/login", map[string]string{
			"username": "alice", "password": "password123",
		})
		require.Equal(t, http.StatusOK, rr.Code)
		return decodeBody[sessionResponse](t, rr).Token
	}

	// Tokens minted a second apart differ in their issued-at claim.
	first := login()
	time.Sleep(1100 * time.Millisecond)
	second := login()
	require.NotEqual(t, first, second)

	rr := doJSON(t, h, http.MethodPost, "/api/users/logout", nil, withBearer(first))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/api/users/me", nil, withBearer(first))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/api/users/me", nil, withBearer(second))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterValidation(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	tests := []struct {
		name  string
		body  map[string]string
		field string
		code  string
	}{
		{
			name:  "short username",
			body:  map[string]string{"username": "ab", "email": "a@b.co", "password": "password123"},
			field: "username",
			code:  codeInvalidLength,
		},
		{
			name:  "bad email",
			body:  map[string]string{"username": "alice", "email": "not-an-email", "password": "password123"},
			field: "email",
			code:  codeInvalidFormat,
		},
		{
			name:  "short password",
			body:  map[string]string{"username": "alice", "email": "alice@example.com", "password": "ab1"},
			field: "password",
			code:  codeInvalidLength,
		},
		{
			// Two runes even though more than three bytes.
			name:  "short multibyte username",
			body:  map[string]string{"username": "éé", "email": "a@b.co", "password": "password123"},
			field: "username",
			code:  codeInvalidLength,
		},
		{
			// Five runes, ten bytes.
			name:  "short multibyte password",
			body:  map[string]string{"username": "alice", "email": "alice@example.com", "password": "ééééé"},
			field: "password",
			code:  codeInvalidLength,
		},
		{
			// Username is checked first, so only it is reported.
			name:  "everything wrong reports first failure only",
			body:  map[string]string{"username": "x", "email": "nope", "password": "a"},
			field: "username",
			code:  codeInvalidLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, h, http.MethodPost, "/api/users/register", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)

			body := decodeBody[errorBody](t, rr)
			require.Len(t, body.FieldErrors, 1)
			require.Equal(t, tt.field, body.FieldErrors[0].Field)
			require.Equal(t, tt.code, body.FieldErrors[0].Code)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	_, h := newTestServer(t, time.Hour)
	registerUser(t, h, "alice")

	rr := doJSON(t, h, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	body := decodeBody[errorBody](t, rr)
	require.Len(t, body.FieldErrors, 1)
	require.Equal(t, "username", body.FieldErrors[0].Field)
	require.Equal(t, codeDuplicate, body.FieldErrors[0].Code)

	rr = doJSON(t, h, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	body = decodeBody[errorBody](t, rr)
	require.Len(t, body.FieldErrors, 1)
	require.Equal(t, "email", body.FieldErrors[0].Field)
	require.Equal(t, codeDuplicate, body.FieldErrors[0].Code)
}

func TestLoginMissingFields(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	rr := doJSON(t, h, http.MethodPost, "/api/users/login", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/api/users/login", map[string]string{"password": "secret1"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMalformedBodyReturns400(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	rr := doJSON(t, h, http.MethodPost, "/api/users/register", nil) // empty body
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthAliasRoutes(t *testing.T) {
	_, h := newTestServer(t, time.Hour)

	rr := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	token := decodeBody[sessionResponse](t, rr).Token

	rr = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/api/auth/me", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/api/auth/logout", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestMeAfterIdentityDeleted(t *testing.T) {
	s, h := newTestServer(t, time.Hour)
	token := registerUser(t, h, "alice")

	me := doJSON(t, h, http.MethodGet, "/api/users/me", nil, withBearer(token))
	require.Equal(t, http.StatusOK, me.Code)
	id := decodeBody[userPayload](t, me).ID

	require.NoError(t, s.users.DeleteUser(context.Background(), id))

	// The token still verifies, but the subject is gone.
	rr := doJSON(t, h, http.MethodGet, "/api/users/me", nil, withBearer(token))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
