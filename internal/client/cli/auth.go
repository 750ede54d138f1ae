package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docvault/internal/client/routes"
	"github.com/dmitrijs2005/docvault/internal/common"
)

// errNotConfirmed is returned when the user backs out of a destructive
// command.
var errNotConfirmed = errors.New("not confirmed")

// Login prompts for an identifier and password and signs in. On success the
// client moves to the home route; on failure the first server message is
// kept as the inline error shown by whoami.
func (a *App) Login(ctx context.Context) error {
	if !a.navigate(routes.Login) {
		return nil
	}

	identifier, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, identifier, password)
	if err != nil {
		a.notify.Error(err)
		return err
	}

	a.notify.Success(fmt.Sprintf("Welcome, %s!", user.DisplayName()))
	a.navigate(routes.Home)
	return nil
}

// LoginGoogle signs in with a Google ID token pasted by the user.
func (a *App) LoginGoogle(ctx context.Context) error {
	if !a.navigate(routes.Login) {
		return nil
	}

	idToken, err := getSimpleText(a.reader, "Paste Google ID token", a.out)
	if err != nil {
		return err
	}

	user, err := a.authService.LoginWithGoogle(ctx, idToken)
	if err != nil {
		a.notify.Error(err)
		return err
	}

	a.notify.Success(fmt.Sprintf("Welcome, %s!", user.DisplayName()))
	a.navigate(routes.Home)
	return nil
}

// Logout drops the persisted and in-memory session.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.notify.Info("Not logged in")
		return nil
	}
	if err := a.authService.Logout(ctx); err != nil {
		a.notify.Error(err)
		return err
	}
	a.notify.Success("Logged out")
	a.navigate(routes.Landing)
	return nil
}

// Register prompts for username, email and password and creates an account.
// It does not sign in.
func (a *App) Register(ctx context.Context) error {
	if !a.navigate(routes.Register) {
		return nil
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.authService.Register(ctx, username, email, password)
	if err != nil {
		a.notify.Error(err)
		return err
	}

	a.notify.Success(orDefault(res.Message, "Sign-up successful!"))
	return nil
}

// WhoAmI shows the account behind the session, or the inline login error
// when there is no session.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		line := "Not logged in"
		if msg := a.store.LastError(); msg != "" {
			line += " (last login failed: " + msg + ")"
		}
		fmt.Fprintln(a.out, line)
		return nil
	}

	u, err := a.authService.WhoAmI(ctx)
	if err != nil {
		a.notify.Error(err)
		if !a.isLoggedIn() {
			a.navigate(routes.Landing)
		}
		return err
	}

	fmt.Fprintf(a.out, "Username:  %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:     %s\n", u.Email)
	if u.FullName != "" {
		fmt.Fprintf(a.out, "Full name: %s\n", u.FullName)
	}
	return nil
}

// DeleteAccount asks for a reason and an explicit confirmation, deletes the
// account and logs out.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.navigate(routes.Settings) {
		return nil
	}

	reason, err := getSimpleText(a.reader, "Why are you leaving? (optional)", a.out)
	if err != nil {
		return err
	}
	confirm, err := getSimpleText(a.reader, "Type DELETE to confirm", a.out)
	if err != nil {
		return err
	}
	if confirm != "DELETE" {
		a.notify.Info("Account deletion cancelled")
		return errNotConfirmed
	}

	if err := a.authService.DeleteAccount(ctx, reason); err != nil {
		a.notify.Error(err)
		return err
	}

	a.notify.Success("Account deleted")
	a.navigate(routes.Landing)
	return nil
}
