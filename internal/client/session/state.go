// Package session holds the client's in-memory authentication state.
//
// State is an immutable value. It changes only through Reduce, which applies
// one Action (Start, Succeed, Fail, Clear) and either returns the next State
// or rejects the transition. Store wraps the current State behind a mutex
// and notifies subscribers after every accepted transition.
package session

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docvault/internal/client/models"
)

// ErrInvalidTransition is returned when an action is not allowed from the
// current status.
var ErrInvalidTransition = errors.New("invalid session transition")

// DefaultFailureMessage is recorded when a failure carries no message.
const DefaultFailureMessage = "Login failed"

type Status int

const (
	Anonymous Status = iota
	Authenticating
	Authenticated
	AuthFailed
)

func (s Status) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case AuthFailed:
		return "auth_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of the session. User is non-nil exactly when Status
// is Authenticated.
type State struct {
	Status    Status
	User      *models.User
	Loading   bool
	LastError string
}

func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// clone detaches the snapshot from the store's copy of the user.
func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}

// Action is one of Start, Succeed, Fail, Refresh or Clear.
type Action interface {
	action()
}

// Start begins an authentication attempt.
type Start struct{}

// Succeed completes authentication for User.
type Succeed struct {
	User *models.User
}

// Fail ends an authentication attempt with Err as the inline message.
type Fail struct {
	Err string
}

// Refresh replaces the signed-in user with a fresher copy from the server.
type Refresh struct {
	User *models.User
}

// Clear drops the session, e.g. on logout or account deletion.
type Clear struct{}

func (Start) action()   {}
func (Succeed) action() {}
func (Fail) action()    {}
func (Refresh) action() {}
func (Clear) action()   {}

// Reduce applies a to s. On error the returned State equals s.
//
//	Start:   Anonymous | AuthFailed          -> Authenticating
//	Succeed: Authenticating | Anonymous      -> Authenticated
//	Fail:    Authenticating                  -> AuthFailed
//	Refresh: Authenticated                   -> Authenticated
//	Clear:   any                             -> Anonymous
//
// Succeed from Anonymous is how a persisted session is restored at startup.
func Reduce(s State, a Action) (State, error) {
	switch act := a.(type) {
	case Start:
		if s.Status != Anonymous && s.Status != AuthFailed {
			return s, fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.Status)
		}
		return State{Status: Authenticating, Loading: true}, nil

	case Succeed:
		if s.Status != Authenticating && s.Status != Anonymous {
			return s, fmt.Errorf("%w: succeed from %s", ErrInvalidTransition, s.Status)
		}
		if act.User == nil {
			return s, fmt.Errorf("%w: succeed without user", ErrInvalidTransition)
		}
		return State{Status: Authenticated, User: act.User.Clone()}, nil

	case Fail:
		if s.Status != Authenticating {
			return s, fmt.Errorf("%w: fail from %s", ErrInvalidTransition, s.Status)
		}
		msg := act.Err
		if msg == "" {
			msg = DefaultFailureMessage
		}
		return State{Status: AuthFailed, LastError: msg}, nil

	case Refresh:
		if s.Status != Authenticated {
			return s, fmt.Errorf("%w: refresh from %s", ErrInvalidTransition, s.Status)
		}
		if act.User == nil {
			return s, fmt.Errorf("%w: refresh without user", ErrInvalidTransition)
		}
		return State{Status: Authenticated, User: act.User.Clone()}, nil

	case Clear:
		return State{Status: Anonymous}, nil

	default:
		return s, fmt.Errorf("%w: unknown action %T", ErrInvalidTransition, a)
	}
}
