// Package services contains application services for the DocVault client.
// This file defines the authentication service: password and Google login,
// logout, registration, account lookup and deletion. It is the only place
// that drives session transitions for a login attempt.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docvault/internal/client/client"
	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/client/session"
	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/logging"
)

var (
	// ErrValidation marks input rejected before any network call.
	ErrValidation = common.ErrValidation
	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// SessionBridge is the durable side of the session (see persist.Bridge).
type SessionBridge interface {
	Persist(ctx context.Context, token string, user *models.User) error
	Refresh(ctx context.Context, user *models.User) error
	Clear(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login / LoginWithGoogle: Start the session, call the API, persist the
//     credentials and Succeed; on any failure, Fail with the first message.
//   - Logout: drop persisted and in-memory session.
//   - Register: create an account; does not log in.
//   - WhoAmI: fetch the current account from the server and refresh the
//     session user and its stored copy.
//   - DeleteAccount: delete the account, then log out.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, identifier string, password []byte) (*models.User, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*models.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, username, email string, password []byte) (*client.RegisterResult, error)
	WhoAmI(ctx context.Context) (*models.User, error)
	DeleteAccount(ctx context.Context, reason string) error
}

type authService struct {
	client        client.Client
	store         *session.Store
	bridge        SessionBridge
	registerToken string
	log           logging.Logger
}

// NewAuthService constructs an AuthService. registerToken is sent with
// sign-up requests.
func NewAuthService(c client.Client, store *session.Store, bridge SessionBridge, registerToken string, log logging.Logger) AuthService {
	return &authService{client: c, store: store, bridge: bridge, registerToken: registerToken, log: log}
}

func (a *authService) Login(ctx context.Context, identifier string, password []byte) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: username or email is required", ErrValidation)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	return a.authenticate(ctx, "password", func(ctx context.Context) (*client.AuthResult, error) {
		return a.client.Login(ctx, identifier, string(password))
	})
}

func (a *authService) LoginWithGoogle(ctx context.Context, idToken string) (*models.User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: google id token is required", ErrValidation)
	}

	return a.authenticate(ctx, "google", func(ctx context.Context) (*client.AuthResult, error) {
		return a.client.LoginWithGoogle(ctx, idToken)
	})
}

func (a *authService) authenticate(ctx context.Context, method string, call func(context.Context) (*client.AuthResult, error)) (*models.User, error) {
	if err := a.store.Start(); err != nil {
		return nil, err
	}

	res, err := call(ctx)
	if err != nil {
		a.fail(ctx, method, err)
		return nil, fmt.Errorf("login error: %w", err)
	}

	if err := a.bridge.Persist(ctx, res.Token, res.User); err != nil {
		a.fail(ctx, method, err)
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	if err := a.store.Succeed(res.User); err != nil {
		return nil, err
	}

	a.log.Info(ctx, "login succeeded", "method", method, "user", res.User.Username)
	return res.User.Clone(), nil
}

func (a *authService) fail(ctx context.Context, method string, err error) {
	msg := client.FirstMessage(err)
	if ferr := a.store.Fail(msg); ferr != nil {
		a.log.Warn(ctx, "session fail rejected", "err", ferr)
	}
	a.log.Info(ctx, "login failed", "method", method, "err", err)
}

// Logout is local: the API has no sign-out endpoint.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.bridge.Clear(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*client.RegisterResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	case email == "":
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	case len(password) == 0:
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	return a.client.Register(ctx, client.RegisterRequest{
		Username: username,
		Email:    email,
		Password: string(password),
		Token:    a.registerToken,
	})
}

// WhoAmI asks the server who the current credentials belong to. A rejected
// token ends the local session too.
func (a *authService) WhoAmI(ctx context.Context) (*models.User, error) {
	if !a.store.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	u, err := a.client.GetUserDetails(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		if cerr := a.bridge.Clear(ctx); cerr != nil {
			a.log.Warn(ctx, "failed to clear rejected session", "err", cerr)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if rerr := a.bridge.Refresh(ctx, u); rerr != nil {
		a.log.Warn(ctx, "failed to refresh stored user", "err", rerr)
	}
	return u, nil
}

func (a *authService) DeleteAccount(ctx context.Context, reason string) error {
	if !a.store.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if _, err := a.client.DeleteUser(ctx, strings.TrimSpace(reason)); err != nil {
		return err
	}
	a.log.Info(ctx, "account deleted")
	return a.bridge.Clear(ctx)
}
