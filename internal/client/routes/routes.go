// Package routes names the client's screens and decides, from the session
// alone, whether a navigation is allowed or redirected. Guards are pure and
// never touch the network.
package routes

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/docvault/internal/client/session"
)

type Route string

const (
	Landing       Route = "/"
	Login         Route = "/login"
	Register      Route = "/register"
	ResetPassword Route = "/reset-password"
	Home          Route = "/home"
	Profile       Route = "/profile"
	Settings      Route = "/settings"
)

// Decision is the outcome of a guard. Target is where the navigation ends
// up: the requested route when allowed, the redirect otherwise.
type Decision struct {
	Allowed bool
	Target  Route
}

// Redirected reports whether Target differs from what was asked for.
func (d Decision) Redirected() bool {
	return !d.Allowed
}

// Guard decides access to route given the session.
type Guard func(route Route, s session.State) Decision

// ProtectedRoute admits authenticated sessions and sends everyone else to
// the landing page.
func ProtectedRoute(route Route, s session.State) Decision {
	if s.IsAuthenticated() {
		return Decision{Allowed: true, Target: route}
	}
	return Decision{Target: Landing}
}

// PublicRoute admits anonymous sessions and sends signed-in users home.
func PublicRoute(route Route, s session.State) Decision {
	if !s.IsAuthenticated() {
		return Decision{Allowed: true, Target: route}
	}
	return Decision{Target: Home}
}

// table maps each known route to whether it needs a session.
var table = map[Route]bool{
	Landing:       false,
	Login:         false,
	Register:      false,
	ResetPassword: false,
	Home:          true,
	Profile:       true,
	Settings:      true,
}

// Lookup returns the guard for a known route.
func Lookup(route Route) (Guard, bool) {
	protected, ok := table[route]
	if !ok {
		return nil, false
	}
	if protected {
		return ProtectedRoute, true
	}
	return PublicRoute, true
}

// Resolve runs the guard for path. Unknown paths fall back to Home for
// authenticated sessions and Landing otherwise.
func Resolve(path string, s session.State) Decision {
	route := Normalize(path)
	g, ok := Lookup(route)
	if !ok {
		return Fallback(s)
	}
	return g(route, s)
}

// Fallback is where an unknown path lands.
func Fallback(s session.State) Decision {
	if s.IsAuthenticated() {
		return Decision{Target: Home}
	}
	return Decision{Target: Landing}
}

// Normalize turns user input such as "home" or "/Login/" into a route.
func Normalize(path string) Route {
	p := strings.ToLower(strings.TrimSpace(path))
	p = strings.TrimRight(p, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return Route(p)
}

// IsProtected reports whether route needs a session.
func IsProtected(route Route) bool {
	return table[route]
}

// All lists the known routes in path order.
func All() []Route {
	out := make([]Route, 0, len(table))
	for r := range table {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
