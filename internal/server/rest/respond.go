package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Field error codes shared by all endpoints.
const (
	codeRequired      = "REQUIRED"
	codeInvalidLength = "INVALID_LENGTH"
	codeInvalidFormat = "INVALID_FORMAT"
	codeInvalidValue  = "INVALID_VALUE"
	codeDuplicate     = "DUPLICATE"
)

// errorBody is the uniform error shape every failure returns. FieldErrors
// is always present (possibly empty); Message is null when unset.
type errorBody struct {
	Timestamp   string       `json:"timestamp"`
	Status      int          `json:"status"`
	Error       string       `json:"error"`
	FieldErrors []FieldError `json:"fieldErrors"`
	Message     *string      `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), "response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, fieldErrors []FieldError, message string) {
	if fieldErrors == nil {
		fieldErrors = []FieldError{}
	}
	var msg *string
	if message != "" {
		msg = &message
	}
	s.writeJSON(w, r, status, errorBody{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Status:      status,
		Error:       http.StatusText(status),
		FieldErrors: fieldErrors,
		Message:     msg,
	})
}

// decodeBody parses the JSON request body into v. On malformed input it
// writes a 400 and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, http.StatusBadRequest, nil, "invalid request body")
		return false
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	s.writeError(w, r, http.StatusInternalServerError, nil, "internal server error")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusNotFound, nil, "route not found")
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, nil, "method not allowed")
}

// setTokenCookie attaches the session token as an HTTP-only cookie with the
// same lifetime as the token itself.
func (s *Server) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(s.tokenValidity.Seconds()),
	})
}

func (s *Server) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
