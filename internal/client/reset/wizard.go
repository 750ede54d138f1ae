package reset

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/docvault/internal/client/client"
	"github.com/dmitrijs2005/docvault/internal/common"
)

// DefaultResendCooldown gates Resend after a code is sent.
const DefaultResendCooldown = 30 * time.Second

// API is the subset of client.Client the wizard calls.
type API interface {
	RequestOTP(ctx context.Context, identifier string) (*client.MessageResult, error)
	VerifyOTP(ctx context.Context, req client.VerifyOTPRequest) (*client.VerifyResult, error)
	ResetPassword(ctx context.Context, req client.ResetPasswordRequest) (*client.MessageResult, error)
}

type Step int

const (
	StepIdentify Step = iota + 1
	StepVerify
	StepFinalize
)

func (s Step) String() string {
	switch s {
	case StepIdentify:
		return "identify"
	case StepVerify:
		return "verify"
	case StepFinalize:
		return "finalize"
	default:
		return "unknown"
	}
}

// State is a snapshot of the wizard. ResetToken is empty until step 2
// succeeds. Loading reports a call in flight for the current step only.
type State struct {
	Step              Step
	Identifier        string
	OTP               string
	ResetToken        string
	ExpiresIn         int
	ResendAvailableAt time.Time
	Loading           bool
	// Message is the server's message from the last successful call.
	Message string
}

type Option func(*Wizard)

func WithClock(c Clock) Option {
	return func(w *Wizard) { w.clock = c }
}

func WithCooldown(d time.Duration) Option {
	return func(w *Wizard) { w.cooldown = d }
}

// Wizard is safe for concurrent use. Calls to the API are made without
// holding the lock.
type Wizard struct {
	mu       sync.Mutex
	api      API
	clock    Clock
	cooldown time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	state State
	// calls holds the cancel func of the in-flight call per step.
	calls [StepFinalize + 1]context.CancelFunc
	// gen invalidates in-flight calls on Back and Close.
	gen    uint64
	done   bool
	exited bool
	closed bool
}

// New starts a wizard at step 1. Cancelling parent is equivalent to Close.
func New(parent context.Context, api API, opts ...Option) *Wizard {
	w := &Wizard{
		api:      api,
		clock:    SystemClock,
		cooldown: DefaultResendCooldown,
		state:    State{Step: StepIdentify},
	}
	for _, o := range opts {
		o(w)
	}
	w.ctx, w.cancel = context.WithCancel(parent)
	return w
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.state
	s.Loading = w.calls[s.Step] != nil
	return s
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Step
}

// Done reports that the password was reset; the caller should go to login.
func (w *Wizard) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

// Exited reports that Back was used on step 1.
func (w *Wizard) Exited() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exited
}

// SetIdentifier records the username or email entered on step 1.
func (w *Wizard) SetIdentifier(identifier string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Step == StepIdentify {
		w.state.Identifier = identifier
	}
}

// SetOTP keeps the digits of raw, at most six, and returns what was kept.
func (w *Wizard) SetOTP(raw string) string {
	otp := SanitizeOTP(raw)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.OTP = otp
	return otp
}

// SanitizeOTP drops every non-digit and truncates to the code length.
func SanitizeOTP(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == common.OTPLength {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanResend reports whether the step 2 resend gate is open.
func (w *Wizard) CanResend() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canResendLocked()
}

func (w *Wizard) canResendLocked() bool {
	return w.state.Step == StepVerify && !w.clock.Now().Before(w.state.ResendAvailableAt)
}

// ResendIn is the time left on the resend cooldown, zero when open.
func (w *Wizard) ResendIn() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.state.ResendAvailableAt.Sub(w.clock.Now())
	if d < 0 {
		return 0
	}
	return d
}

// SubmitIdentifier requests a code for the identifier and moves to step 2.
func (w *Wizard) SubmitIdentifier(ctx context.Context) error {
	w.mu.Lock()
	identifier := strings.TrimSpace(w.state.Identifier)
	w.mu.Unlock()
	if identifier == "" {
		return &ValidationError{Field: "identifier", Message: "Please enter your username or email"}
	}

	callCtx, gen, err := w.begin(ctx, StepIdentify)
	if err != nil {
		return err
	}
	res, err := w.api.RequestOTP(callCtx, identifier)

	w.mu.Lock()
	defer w.mu.Unlock()
	if ferr := w.finish(StepIdentify, gen); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}
	w.state.Identifier = identifier
	w.state.Step = StepVerify
	w.state.OTP = ""
	w.state.ResendAvailableAt = w.clock.Now().Add(w.cooldown)
	w.state.Message = res.Message
	return nil
}

// SubmitOTP exchanges the six-digit code for a reset token and moves to
// step 3.
func (w *Wizard) SubmitOTP(ctx context.Context) error {
	w.mu.Lock()
	identifier, otp := w.state.Identifier, w.state.OTP
	w.mu.Unlock()
	if len(otp) != common.OTPLength {
		return &ValidationError{Field: "otp", Message: "Please enter a valid 6-digit OTP"}
	}

	callCtx, gen, err := w.begin(ctx, StepVerify)
	if err != nil {
		return err
	}
	res, err := w.api.VerifyOTP(callCtx, client.VerifyOTPRequest{
		Identifier: identifier,
		OTP:        otp,
		OTPType:    common.OTPTypePasswordReset,
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if ferr := w.finish(StepVerify, gen); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}
	w.state.ResetToken = res.ResetToken
	w.state.ExpiresIn = res.ExpiresIn
	w.state.Step = StepFinalize
	w.state.Message = res.Message
	return nil
}

// Resend requests a fresh code once the cooldown has elapsed and restarts
// the cooldown on success.
func (w *Wizard) Resend(ctx context.Context) error {
	w.mu.Lock()
	identifier := w.state.Identifier
	gated := w.state.Step == StepVerify && !w.canResendLocked()
	w.mu.Unlock()
	if gated {
		return ErrResendCooldown
	}

	callCtx, gen, err := w.begin(ctx, StepVerify)
	if err != nil {
		return err
	}
	res, err := w.api.RequestOTP(callCtx, identifier)

	w.mu.Lock()
	defer w.mu.Unlock()
	if ferr := w.finish(StepVerify, gen); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}
	w.state.ResendAvailableAt = w.clock.Now().Add(w.cooldown)
	w.state.Message = res.Message
	return nil
}

// SubmitPassword sets the new password using the stored reset token. On
// failure the token is kept so the user can retry until it expires.
func (w *Wizard) SubmitPassword(ctx context.Context, newPassword, confirmPassword string) error {
	if utf8.RuneCountInString(newPassword) < common.MinPasswordLength {
		return &ValidationError{Field: "new_password", Message: "Password must be at least 8 characters"}
	}
	if newPassword != confirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match"}
	}

	w.mu.Lock()
	token := w.state.ResetToken
	w.mu.Unlock()

	callCtx, gen, err := w.begin(ctx, StepFinalize)
	if err != nil {
		return err
	}
	res, err := w.api.ResetPassword(callCtx, client.ResetPasswordRequest{
		ResetToken:         token,
		NewPassword:        newPassword,
		ConfirmNewPassword: confirmPassword,
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if ferr := w.finish(StepFinalize, gen); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}
	w.done = true
	w.state.Message = res.Message
	return nil
}

// Back moves one step back, or exits from step 1. The in-flight call of the
// step being left is cancelled and its response will be dropped.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	w.gen++
	w.cancelCallLocked(w.state.Step)

	if w.state.Step == StepIdentify {
		w.exited = true
		w.closeLocked()
		return
	}

	w.state.Step--
	if w.state.Step == StepIdentify {
		w.state.ResetToken = ""
		w.state.ExpiresIn = 0
		w.state.OTP = ""
		w.state.ResendAvailableAt = time.Time{}
	}
}

// Close cancels every in-flight call. Later responses are dropped.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.closeLocked()
}

func (w *Wizard) closeLocked() {
	for s := range w.calls {
		w.cancelCallLocked(Step(s))
	}
	w.closed = true
	w.cancel()
}

func (w *Wizard) cancelCallLocked(s Step) {
	if c := w.calls[s]; c != nil {
		c()
		w.calls[s] = nil
	}
}

// begin registers a call for step and derives its context from both ctx and
// the wizard lifetime.
func (w *Wizard) begin(ctx context.Context, step Step) (context.Context, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.closed || w.ctx.Err() != nil:
		return nil, 0, ErrClosed
	case w.done:
		return nil, 0, ErrClosed
	case w.state.Step != step:
		return nil, 0, ErrWrongStep
	case w.calls[step] != nil:
		return nil, 0, ErrBusy
	}

	callCtx, cancel := context.WithCancel(w.ctx)
	stop := context.AfterFunc(ctx, cancel)
	w.calls[step] = func() {
		stop()
		cancel()
	}
	return callCtx, w.gen, nil
}

// finish releases the call slot, or reports ErrStale if Back or Close ran
// since begin. Caller holds the lock.
func (w *Wizard) finish(step Step, gen uint64) error {
	if gen != w.gen {
		return ErrStale
	}
	w.cancelCallLocked(step)
	return nil
}
