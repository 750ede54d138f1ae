package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/server/services"
	"github.com/dmitrijs2005/docvault/internal/server/users"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type userDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

func toDTO(u *users.User) *userDTO {
	return &userDTO{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeFailure(w http.ResponseWriter, status int, message string, details ...string) {
	writeJSON(w, status, envelope{Success: false, Message: message, Errors: details})
}

// decode reads a JSON body into v, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeFailure(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

// writeError maps a service error to a status and message. Messages in
// overrides win over the defaults for the errors they name.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error, overrides map[error]string) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		writeFailure(w, http.StatusBadRequest, "Validation failed", ve.Problems...)
		return
	}

	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			msg := m.message
			if o, ok := overrides[m.err]; ok {
				msg = o
			}
			writeFailure(w, m.status, msg)
			return
		}
	}

	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeFailure(w, http.StatusInternalServerError, "Internal server error")
}

var errorTable = []struct {
	err     error
	status  int
	message string
}{
	{common.ErrorUnauthorized, http.StatusUnauthorized, "Invalid credentials"},
	{common.ErrorForbidden, http.StatusForbidden, "Registration is closed"},
	{common.ErrorNotFound, http.StatusNotFound, "User not found"},
	{common.ErrorAlreadyExists, http.StatusConflict, "Username or email is already taken"},
	{common.ErrorThrottled, http.StatusTooManyRequests, "Too many requests, please wait before retrying"},
	{common.ErrInvalidOTP, http.StatusBadRequest, "Invalid OTP"},
	{common.ErrOTPExpired, http.StatusBadRequest, "OTP has expired"},
	{common.ErrInvalidToken, http.StatusBadRequest, "Invalid or expired reset token"},
	{common.ErrTokenExpired, http.StatusBadRequest, "Invalid or expired reset token"},
}
