// Package services contains server-side business logic. This file implements
// UserService, which handles registration, password and Google login,
// account lookup and deletion.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/cryptox"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/dmitrijs2005/docvault/internal/server/auth"
	"github.com/dmitrijs2005/docvault/internal/server/config"
	"github.com/dmitrijs2005/docvault/internal/server/users"
)

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrValidation
}

func invalid(problems ...string) error {
	return &ValidationError{Problems: problems}
}

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Token    string
}

// Session is a signed-in user with its bearer token.
type Session struct {
	Token string
	User  *users.User
}

// UserService provides account operations:
// - Register: create users
// - Login / LoginWithGoogle: verify identity and mint a session token
// - Details / Delete: act on the account behind a token
type UserService struct {
	repo          users.Repository
	jwtSecret     []byte
	tokenTTL      time.Duration
	registerToken string
	log           logging.Logger
}

// NewUserService constructs a UserService using the repository and server config.
func NewUserService(repo users.Repository, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		repo:          repo,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenTTL:      cfg.TokenTTL,
		registerToken: cfg.RegisterToken,
		log:           log,
	}
}

// Register validates in and creates the account. It does not sign in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*users.User, error) {
	if s.registerToken != "" && in.Token != s.registerToken {
		return nil, common.ErrorForbidden
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	var problems []string
	if in.Username == "" {
		problems = append(problems, "Username is required")
	} else if strings.Contains(in.Username, "@") {
		problems = append(problems, "Username must not contain @")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || !strings.Contains(in.Email, "@") {
		problems = append(problems, "A valid email is required")
	}
	if utf8.RuneCountInString(in.Password) < common.MinPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must be at least %d characters", common.MinPasswordLength))
	}
	if len(problems) > 0 {
		return nil, invalid(problems...)
	}

	hash, salt := cryptox.HashPassword([]byte(in.Password))
	u, err := s.repo.Create(ctx, &users.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Salt:         salt,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the password of the account named by identifier, which is a
// username or an email, and returns a new session.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	u, err := s.repo.GetByLogin(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same time as a real check
			cryptox.VerifyPassword([]byte(password), common.GenerateRandByteArray(cryptox.SaltSize), make([]byte, 32))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !cryptox.VerifyPassword([]byte(password), u.Salt, u.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return s.newSession(u)
}

// LoginWithGoogle signs in the account whose email matches the ID token,
// creating it on first use.
func (s *UserService) LoginWithGoogle(ctx context.Context, idToken string) (*Session, error) {
	id, err := auth.ParseGoogleIDToken(idToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	u, err := s.repo.GetByLogin(ctx, id.Email)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound):
		u, err = s.createGoogleUser(ctx, id)
		if err != nil {
			return nil, err
		}
	default:
		return nil, common.ErrorInternal
	}
	return s.newSession(u)
}

// Authenticate resolves a bearer token to its user ID.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// Details returns the account with userID.
func (s *UserService) Details(ctx context.Context, userID string) (*users.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// Delete removes the account with userID. The reason is only logged.
func (s *UserService) Delete(ctx context.Context, userID, reason string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "user_id", userID, "reason", reason)
	return nil
}

// --- helpers below ---

func (s *UserService) newSession(u *users.User) (*Session, error) {
	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, User: u}, nil
}

func (s *UserService) createGoogleUser(ctx context.Context, id *auth.GoogleIdentity) (*users.User, error) {
	base, _, _ := strings.Cut(id.Email, "@")
	username := base
	for i := 2; ; i++ {
		u, err := s.repo.Create(ctx, &users.User{Username: username, Email: id.Email, FullName: id.Name})
		if err == nil {
			s.log.Info(ctx, "user registered via google", "user_id", u.ID)
			return u, nil
		}
		if !errors.Is(err, common.ErrorAlreadyExists) || i > 100 {
			return nil, fmt.Errorf("error creating user: %w", err)
		}
		username = fmt.Sprintf("%s%d", base, i)
	}
}
