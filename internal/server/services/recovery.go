package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/cryptox"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/dmitrijs2005/docvault/internal/server/recovery"
	"github.com/dmitrijs2005/docvault/internal/server/users"
)

// ResetGrant is the outcome of a verified code.
type ResetGrant struct {
	Token     string
	ExpiresIn int
}

// RecoveryService runs the forgotten password flow: a code is mailed, the
// code is exchanged for a reset token, and the token sets a new password.
type RecoveryService struct {
	repo   users.Repository
	codes  *recovery.Codes
	tokens *recovery.Tokens
	mailer Mailer
	log    logging.Logger
}

func NewRecoveryService(repo users.Repository, codes *recovery.Codes, tokens *recovery.Tokens, mailer Mailer, log logging.Logger) *RecoveryService {
	return &RecoveryService{repo: repo, codes: codes, tokens: tokens, mailer: mailer, log: log}
}

// RequestCode mails a fresh code to the account named by identifier.
func (s *RecoveryService) RequestCode(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return invalid("Username or email is required")
	}

	u, err := s.repo.GetByLogin(ctx, identifier)
	if err != nil {
		return err
	}
	if u.Email == "" {
		return fmt.Errorf("%w: account has no email", common.ErrorNotFound)
	}

	code, err := s.codes.Issue(u.ID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your DocVault password reset code is %s.", code)
	if err := s.mailer.Send(ctx, u.Email, "Password reset code", body); err != nil {
		s.codes.Forget(u.ID)
		return fmt.Errorf("error sending mail: %w", err)
	}

	s.log.Info(ctx, "reset code issued", "user_id", u.ID)
	return nil
}

// VerifyCode checks code for the account named by identifier and returns a
// reset token.
func (s *RecoveryService) VerifyCode(ctx context.Context, identifier, code, otpType string) (*ResetGrant, error) {
	if otpType != "" && otpType != common.OTPTypePasswordReset {
		return nil, invalid("Unsupported otp_type")
	}
	if len(code) != common.OTPLength {
		return nil, invalid(fmt.Sprintf("OTP must be %d digits", common.OTPLength))
	}

	u, err := s.repo.GetByLogin(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidOTP
		}
		return nil, err
	}
	if err := s.codes.Verify(u.ID, code); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &ResetGrant{Token: token, ExpiresIn: int(s.tokens.TTL().Seconds())}, nil
}

// ResetPassword spends token to set a new password.
func (s *RecoveryService) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	var problems []string
	if token == "" {
		problems = append(problems, "Reset token is required")
	}
	if utf8.RuneCountInString(newPassword) < common.MinPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must be at least %d characters", common.MinPasswordLength))
	}
	if newPassword != confirm {
		problems = append(problems, "Passwords do not match")
	}
	if len(problems) > 0 {
		return invalid(problems...)
	}

	userID, err := s.tokens.Consume(token)
	if err != nil {
		return err
	}

	hash, salt := cryptox.HashPassword([]byte(newPassword))
	if err := s.repo.UpdatePassword(ctx, userID, hash, salt); err != nil {
		return err
	}

	s.log.Info(ctx, "password reset", "user_id", userID)
	return nil
}
