package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docvault/internal/client/routes"
)

// Goto navigates to path through its guard and shows the resulting screen.
func (a *App) Goto(ctx context.Context, path string) error {
	d := routes.Resolve(path, a.store.State())
	if d.Redirected() {
		a.notify.Info(fmt.Sprintf("%s is not available, redirected to %s", path, d.Target))
	}
	a.route = d.Target
	a.render()
	return nil
}

// navigate moves to route if its guard allows it and reports whether it did.
// A refused navigation lands on the guard's redirect.
func (a *App) navigate(route routes.Route) bool {
	d := routes.Resolve(string(route), a.store.State())
	if d.Redirected() {
		a.notify.Info(fmt.Sprintf("%s is not available, redirected to %s", route, d.Target))
	}
	a.route = d.Target
	a.log.Debug(context.Background(), "navigate", "to", route, "landed", d.Target)
	return d.Allowed
}

// render prints a short description of the current screen.
func (a *App) render() {
	switch a.route {
	case routes.Landing:
		fmt.Fprintln(a.out, "DocVault: store and convert your documents. Try 'login' or 'register'.")
	case routes.Login:
		fmt.Fprintln(a.out, "Sign in with 'login' or 'google'. Forgot your password? Try 'reset'.")
	case routes.Register:
		fmt.Fprintln(a.out, "Create an account with 'register'.")
	case routes.ResetPassword:
		fmt.Fprintln(a.out, "Reset your password with 'reset'.")
	case routes.Home:
		fmt.Fprintf(a.out, "Welcome back, %s.\n", a.store.User().DisplayName())
	case routes.Profile:
		u := a.store.User()
		fmt.Fprintf(a.out, "Profile of %s <%s>. Use 'whoami' to refresh.\n", u.DisplayName(), u.Email)
	case routes.Settings:
		fmt.Fprintln(a.out, "Settings: 'logout' or 'delete-account'.")
	}
}
