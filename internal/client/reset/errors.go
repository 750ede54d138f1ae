package reset

import (
	"errors"

	"github.com/dmitrijs2005/docvault/internal/common"
)

var (
	ErrValidation = common.ErrValidation

	// ErrBusy is returned while the current step already has a call in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrStale means the wizard moved on while the call was in flight; its
	// result was discarded.
	ErrStale = errors.New("response arrived after the wizard moved on")
	// ErrResendCooldown is returned by Resend before the cooldown elapses.
	ErrResendCooldown = errors.New("resend is not available yet")
	// ErrWrongStep is returned by an action that does not belong to the
	// current step.
	ErrWrongStep = errors.New("action not available at this step")
	// ErrClosed is returned by every action after Close or an exit via Back.
	ErrClosed = errors.New("wizard closed")
)

// ValidationError is a client-side rejection. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
