package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/server/services"
)

type signInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type googleRequest struct {
	IDToken string `json:"id_token"`
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

type identifierRequest struct {
	Identifier string `json:"identifier"`
}

type verifyOTPRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp"`
	OTPType    string `json:"otp_type"`
}

type resetPasswordRequest struct {
	ResetToken         string `json:"reset_password_token"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type deleteUserRequest struct {
	Reason string `json:"reason"`
}

type sessionResponse struct {
	envelope
	Token string   `json:"token"`
	User  *userDTO `json:"user"`
}

type userResponse struct {
	envelope
	User *userDTO `json:"user,omitempty"`
}

type detailsResponse struct {
	envelope
	Data *userDTO `json:"data"`
}

type verifyResponse struct {
	envelope
	Data struct {
		ResetToken string `json:"reset_token"`
		ExpiresIn  int    `json:"expires_in"`
	} `json:"data"`
}

func (s *HTTPServer) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decode(w, r, &req) {
		return
	}

	sess, err := s.users.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		envelope: envelope{Success: true, Message: "Login successful"},
		Token:    sess.Token,
		User:     toDTO(sess.User),
	})
}

func (s *HTTPServer) googleOAuth(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if !decode(w, r, &req) {
		return
	}

	sess, err := s.users.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		s.writeError(w, r, err, map[error]string{common.ErrorUnauthorized: "Google sign-in failed"})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		envelope: envelope{Success: true, Message: "Login successful"},
		Token:    sess.Token,
		User:     toDTO(sess.User),
	})
}

func (s *HTTPServer) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := s.users.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Token:    req.Token,
	})
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		envelope: envelope{Success: true, Message: "Sign-up successful!"},
		User:     toDTO(u),
	})
}

func (s *HTTPServer) forgetPassword(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.recovery.RequestCode(r.Context(), req.Identifier); err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "OTP sent to your email successfully"})
}

func (s *HTTPServer) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !decode(w, r, &req) {
		return
	}

	grant, err := s.recovery.VerifyCode(r.Context(), req.Identifier, req.OTP, req.OTPType)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	resp := verifyResponse{envelope: envelope{Success: true, Message: "OTP verified successfully"}}
	resp.Data.ResetToken = grant.Token
	resp.Data.ExpiresIn = grant.ExpiresIn
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.recovery.ResetPassword(r.Context(), req.ResetToken, req.NewPassword, req.ConfirmNewPassword); err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Password reset successfully! You can now login."})
}

func (s *HTTPServer) userDetails(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Details(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, detailsResponse{envelope: envelope{Success: true}, Data: toDTO(u)})
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	if err := s.users.Delete(r.Context(), userIDFrom(r.Context()), req.Reason); err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Account deleted"})
}
