package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userPayload is the public projection of an identity. The password hash
// never leaves the server.
type userPayload struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

type sessionResponse struct {
	User  userPayload `json:"user"`
	Token string      `json:"token"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if fe := validateRegister(&req); fe != nil {
		s.writeError(w, r, http.StatusBadRequest, []FieldError{*fe}, "")
		return
	}

	user, token, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateUsername):
			s.writeError(w, r, http.StatusConflict, []FieldError{
				{Field: "username", Code: codeDuplicate, Message: "username is already taken"},
			}, "")
		case errors.Is(err, users.ErrDuplicateEmail):
			s.writeError(w, r, http.StatusConflict, []FieldError{
				{Field: "email", Code: codeDuplicate, Message: "email is already registered"},
			}, "")
		case errors.Is(err, common.ErrorAlreadyExists):
			s.writeError(w, r, http.StatusConflict, nil, "user already exists")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.setTokenCookie(w, token)
	s.writeJSON(w, r, http.StatusCreated, sessionResponse{User: toUserPayload(user), Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		s.writeError(w, r, http.StatusBadRequest, nil, "username and password are required")
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.writeError(w, r, http.StatusUnauthorized, nil, "invalid credentials")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.setTokenCookie(w, token)
	s.writeJSON(w, r, http.StatusOK, sessionResponse{User: toUserPayload(user), Token: token})
}

// handleLogout revokes exactly the token the request authenticated with
// and expires the session cookie. Other tokens of the same user stay valid.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := rawTokenFromContext(r.Context())
	if !ok {
		s.writeError(w, r, http.StatusUnauthorized, nil, "unauthorized")
		return
	}

	s.blacklist.Revoke(token)
	s.clearTokenCookie(w)
	s.writeJSON(w, r, http.StatusOK, map[string]string{"message": "logged out"})
}

// handleMe returns the authenticated identity. The record may have been
// deleted after the token was issued; that surfaces as 404, not 401.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, http.StatusUnauthorized, nil, "unauthorized")
		return
	}

	// Re-check revocation: a concurrent logout may have landed between the
	// gate and this handler.
	if token, ok := rawTokenFromContext(r.Context()); ok && s.blacklist.IsRevoked(token) {
		s.writeError(w, r, http.StatusUnauthorized, nil, "unauthorized")
		return
	}

	user, err := s.users.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, r, http.StatusNotFound, nil, "user not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, toUserPayload(user))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.users.CountUsers(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]int64{"users": count})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
