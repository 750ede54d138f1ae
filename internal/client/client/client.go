package client

import (
	"context"

	"github.com/dmitrijs2005/docvault/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error)
	RequestOTP(ctx context.Context, identifier string) (*MessageResult, error)
	ResendOTP(ctx context.Context, identifier string) (*MessageResult, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyResult, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResult, error)
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	GetUserDetails(ctx context.Context) (*models.User, error)
	DeleteUser(ctx context.Context, reason string) (*MessageResult, error)
}

// AuthResult is a successful login.
type AuthResult struct {
	Token   string
	User    *models.User
	Message string
}

type MessageResult struct {
	Message string
}

// VerifyResult carries the reset capability issued after OTP verification.
// ResetToken is valid for ExpiresIn seconds.
type VerifyResult struct {
	ResetToken string
	ExpiresIn  int
	Message    string
}

type RegisterResult struct {
	User    *models.User
	Message string
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp"`
	// OTPType defaults to password_reset.
	OTPType string `json:"otp_type"`
}

type ResetPasswordRequest struct {
	ResetToken         string `json:"reset_password_token"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Token is the registration token the server requires for sign-up.
	Token string `json:"token,omitempty"`
}
