package reset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeAPI records calls. When gate is set, each call blocks until gate is
// closed or its context ends; entered is signalled on entry.
type fakeAPI struct {
	mu sync.Mutex

	RequestErr error
	VerifyRet  *client.VerifyResult
	VerifyErr  error
	ResetErr   error

	RequestCalls int
	VerifyCalls  int
	ResetCalls   int

	LastIdentifier string
	LastVerify     client.VerifyOTPRequest
	LastReset      client.ResetPasswordRequest

	gate    chan struct{}
	entered chan struct{}
	ctxErr  error
}

func (f *fakeAPI) wait(ctx context.Context) {
	if f.gate == nil {
		return
	}
	f.entered <- struct{}{}
	select {
	case <-f.gate:
	case <-ctx.Done():
		f.mu.Lock()
		f.ctxErr = ctx.Err()
		f.mu.Unlock()
	}
}

func (f *fakeAPI) RequestOTP(ctx context.Context, identifier string) (*client.MessageResult, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RequestCalls++
	f.LastIdentifier = identifier
	if f.RequestErr != nil {
		return nil, f.RequestErr
	}
	return &client.MessageResult{Message: "OTP sent"}, nil
}

func (f *fakeAPI) VerifyOTP(ctx context.Context, req client.VerifyOTPRequest) (*client.VerifyResult, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.VerifyCalls++
	f.LastVerify = req
	if f.VerifyErr != nil {
		return nil, f.VerifyErr
	}
	if f.VerifyRet != nil {
		return f.VerifyRet, nil
	}
	return &client.VerifyResult{ResetToken: "abc", ExpiresIn: 300}, nil
}

func (f *fakeAPI) ResetPassword(ctx context.Context, req client.ResetPasswordRequest) (*client.MessageResult, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResetCalls++
	f.LastReset = req
	if f.ResetErr != nil {
		return nil, f.ResetErr
	}
	return &client.MessageResult{Message: "Password updated"}, nil
}

func newWizard(t *testing.T, api *fakeAPI) (*Wizard, *fakeClock) {
	t.Helper()
	clk := newFakeClock()
	w := New(context.Background(), api, WithClock(clk))
	t.Cleanup(w.Close)
	return w, clk
}

// toStep drives a wizard to step with the default fake responses.
func toStep(t *testing.T, w *Wizard, step Step) {
	t.Helper()
	ctx := context.Background()
	if step >= StepVerify {
		w.SetIdentifier("alice")
		require.NoError(t, w.SubmitIdentifier(ctx))
	}
	if step >= StepFinalize {
		w.SetOTP("123456")
		require.NoError(t, w.SubmitOTP(ctx))
	}
	require.Equal(t, step, w.Step())
}

func TestSubmitIdentifier_StartsCooldown(t *testing.T) {
	api := &fakeAPI{}
	w, clk := newWizard(t, api)
	start := clk.Now()

	w.SetIdentifier("alice")
	require.NoError(t, w.SubmitIdentifier(context.Background()))

	st := w.State()
	assert.Equal(t, StepVerify, st.Step)
	assert.Equal(t, start.Add(30*time.Second), st.ResendAvailableAt)
	assert.Equal(t, "OTP sent", st.Message)
	assert.Equal(t, "alice", api.LastIdentifier)
	assert.False(t, w.CanResend())
	assert.Equal(t, 30*time.Second, w.ResendIn())

	clk.Advance(29 * time.Second)
	assert.False(t, w.CanResend())

	clk.Advance(time.Second)
	assert.True(t, w.CanResend())
	assert.Zero(t, w.ResendIn())
}

func TestSubmitIdentifier_Validation(t *testing.T) {
	for _, id := range []string{"", "   "} {
		api := &fakeAPI{}
		w, _ := newWizard(t, api)
		w.SetIdentifier(id)

		err := w.SubmitIdentifier(context.Background())
		require.ErrorIs(t, err, ErrValidation)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "identifier", ve.Field)
		assert.Zero(t, api.RequestCalls)
		assert.Equal(t, StepIdentify, w.Step())
	}
}

func TestSubmitIdentifier_FailureStays(t *testing.T) {
	api := &fakeAPI{RequestErr: client.ErrNetwork}
	w, _ := newWizard(t, api)
	w.SetIdentifier("alice")

	require.ErrorIs(t, w.SubmitIdentifier(context.Background()), client.ErrNetwork)
	st := w.State()
	assert.Equal(t, StepIdentify, st.Step)
	assert.False(t, st.Loading)
	assert.True(t, st.ResendAvailableAt.IsZero())
}

func TestSubmitOTP_StoresToken(t *testing.T) {
	api := &fakeAPI{VerifyRet: &client.VerifyResult{ResetToken: "abc", ExpiresIn: 300}}
	w, _ := newWizard(t, api)
	toStep(t, w, StepVerify)

	w.SetOTP("123456")
	require.NoError(t, w.SubmitOTP(context.Background()))

	st := w.State()
	assert.Equal(t, StepFinalize, st.Step)
	assert.Equal(t, "abc", st.ResetToken)
	assert.Equal(t, 300, st.ExpiresIn)
	assert.Equal(t, client.VerifyOTPRequest{Identifier: "alice", OTP: "123456", OTPType: "password_reset"}, api.LastVerify)
}

func TestSanitizeOTP(t *testing.T) {
	tests := map[string]string{
		"12a45":       "1245",
		"123456":      "123456",
		"1234567":     "123456",
		" 12-34 56 ":  "123456",
		"abcdef":      "",
		"١٢٣":         "",
		"9a8b7c6d5e4": "987654",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeOTP(in), "input %q", in)
	}
}

func TestSubmitOTP_RejectsShortCode(t *testing.T) {
	api := &fakeAPI{}
	w, _ := newWizard(t, api)
	toStep(t, w, StepVerify)

	assert.Equal(t, "1245", w.SetOTP("12a45"))
	err := w.SubmitOTP(context.Background())
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, api.VerifyCalls)
	assert.Equal(t, StepVerify, w.Step())
}

func TestSubmitOTP_FailureStays(t *testing.T) {
	api := &fakeAPI{VerifyErr: client.ErrInvalidOTP}
	w, _ := newWizard(t, api)
	toStep(t, w, StepVerify)

	w.SetOTP("000000")
	require.ErrorIs(t, w.SubmitOTP(context.Background()), client.ErrInvalidOTP)
	st := w.State()
	assert.Equal(t, StepVerify, st.Step)
	assert.Empty(t, st.ResetToken)
	assert.Equal(t, "000000", st.OTP)
}

func TestResend(t *testing.T) {
	api := &fakeAPI{}
	w, clk := newWizard(t, api)
	toStep(t, w, StepVerify)
	require.Equal(t, 1, api.RequestCalls)

	require.ErrorIs(t, w.Resend(context.Background()), ErrResendCooldown)
	assert.Equal(t, 1, api.RequestCalls)

	clk.Advance(30 * time.Second)
	require.NoError(t, w.Resend(context.Background()))
	assert.Equal(t, 2, api.RequestCalls)
	assert.Equal(t, "alice", api.LastIdentifier)
	assert.False(t, w.CanResend())
	assert.Equal(t, clk.Now().Add(30*time.Second), w.State().ResendAvailableAt)
}

func TestResend_FailureKeepsGateOpen(t *testing.T) {
	api := &fakeAPI{}
	w, clk := newWizard(t, api)
	toStep(t, w, StepVerify)
	clk.Advance(31 * time.Second)

	api.RequestErr = errors.New("smtp down")
	require.Error(t, w.Resend(context.Background()))
	assert.True(t, w.CanResend())
	assert.Equal(t, StepVerify, w.Step())
}

func TestResend_CustomCooldown(t *testing.T) {
	clk := newFakeClock()
	w := New(context.Background(), &fakeAPI{}, WithClock(clk), WithCooldown(5*time.Second))
	defer w.Close()
	toStep(t, w, StepVerify)

	assert.Equal(t, 5*time.Second, w.ResendIn())
}

func TestResend_WrongStep(t *testing.T) {
	w, _ := newWizard(t, &fakeAPI{})
	require.ErrorIs(t, w.Resend(context.Background()), ErrWrongStep)
	assert.False(t, w.CanResend())
}

func TestSubmitPassword_Validation(t *testing.T) {
	tests := []struct {
		name      string
		pw        string
		confirm   string
		wantField string
	}{
		{name: "too short", pw: "short", confirm: "short", wantField: "new_password"},
		{name: "seven chars", pw: "1234567", confirm: "1234567", wantField: "new_password"},
		{name: "six cyrillic chars in twelve bytes", pw: "пароль", confirm: "пароль", wantField: "new_password"},
		{name: "seven emoji", pw: "🔑🔑🔑🔑🔑🔑🔑", confirm: "🔑🔑🔑🔑🔑🔑🔑", wantField: "new_password"},
		{name: "mismatch", pw: "newpass123", confirm: "newpass124", wantField: "confirm_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			w, _ := newWizard(t, api)
			toStep(t, w, StepFinalize)

			err := w.SubmitPassword(context.Background(), tt.pw, tt.confirm)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Zero(t, api.ResetCalls)
			assert.False(t, w.Done())
		})
	}
}

func TestSubmitPassword_Success(t *testing.T) {
	api := &fakeAPI{}
	w, _ := newWizard(t, api)
	toStep(t, w, StepFinalize)

	require.NoError(t, w.SubmitPassword(context.Background(), "newpass123", "newpass123"))
	assert.True(t, w.Done())
	assert.Equal(t, client.ResetPasswordRequest{
		ResetToken: "abc", NewPassword: "newpass123", ConfirmNewPassword: "newpass123",
	}, api.LastReset)

	require.ErrorIs(t, w.SubmitPassword(context.Background(), "newpass123", "newpass123"), ErrClosed)
}

func TestSubmitPassword_FailureKeepsToken(t *testing.T) {
	api := &fakeAPI{ResetErr: client.ErrInvalidOrExpiredToken}
	w, _ := newWizard(t, api)
	toStep(t, w, StepFinalize)

	require.ErrorIs(t, w.SubmitPassword(context.Background(), "newpass123", "newpass123"), client.ErrInvalidOrExpiredToken)
	st := w.State()
	assert.Equal(t, StepFinalize, st.Step)
	assert.Equal(t, "abc", st.ResetToken)

	api.ResetErr = nil
	require.NoError(t, w.SubmitPassword(context.Background(), "newpass123", "newpass123"))
	assert.True(t, w.Done())
	assert.Equal(t, 1, api.VerifyCalls)
}

func TestBack(t *testing.T) {
	w, _ := newWizard(t, &fakeAPI{})
	toStep(t, w, StepFinalize)

	w.Back()
	st := w.State()
	assert.Equal(t, StepVerify, st.Step)
	assert.Equal(t, "abc", st.ResetToken)

	w.Back()
	st = w.State()
	assert.Equal(t, StepIdentify, st.Step)
	assert.Empty(t, st.ResetToken)
	assert.Zero(t, st.ExpiresIn)
	assert.Equal(t, "alice", st.Identifier)
	assert.False(t, w.Exited())

	w.Back()
	assert.True(t, w.Exited())
	require.ErrorIs(t, w.SubmitIdentifier(context.Background()), ErrClosed)
}

func TestNeverSkipsSteps(t *testing.T) {
	api := &fakeAPI{}
	w, _ := newWizard(t, api)

	w.SetOTP("123456")
	require.ErrorIs(t, w.SubmitOTP(context.Background()), ErrWrongStep)
	require.ErrorIs(t, w.SubmitPassword(context.Background(), "newpass123", "newpass123"), ErrWrongStep)
	assert.Zero(t, api.VerifyCalls)
	assert.Zero(t, api.ResetCalls)
	assert.Equal(t, StepIdentify, w.Step())
}

func TestSubmitWhileLoadingIsBusy(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &fakeAPI{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	w := New(context.Background(), api, WithClock(newFakeClock()))
	defer w.Close()
	w.SetIdentifier("alice")

	errc := make(chan error, 1)
	go func() { errc <- w.SubmitIdentifier(context.Background()) }()
	<-api.entered

	assert.True(t, w.State().Loading)
	require.ErrorIs(t, w.SubmitIdentifier(context.Background()), ErrBusy)

	close(api.gate)
	require.NoError(t, <-errc)
	st := w.State()
	assert.Equal(t, StepVerify, st.Step)
	assert.False(t, st.Loading)
	assert.Equal(t, 1, api.RequestCalls)
}

func TestCloseDropsLateResponse(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &fakeAPI{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	w := New(context.Background(), api, WithClock(newFakeClock()))
	w.SetIdentifier("alice")

	errc := make(chan error, 1)
	go func() { errc <- w.SubmitIdentifier(context.Background()) }()
	<-api.entered
	before := w.State()

	w.Close()
	require.ErrorIs(t, <-errc, ErrStale)

	after := w.State()
	assert.Equal(t, before.Step, after.Step)
	assert.True(t, after.ResendAvailableAt.IsZero())
	assert.ErrorIs(t, api.ctxErr, context.Canceled)
	require.ErrorIs(t, w.SubmitIdentifier(context.Background()), ErrClosed)
}

func TestBackDropsLateResponse(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &fakeAPI{}
	w := New(context.Background(), api, WithClock(newFakeClock()))
	defer w.Close()
	toStep(t, w, StepVerify)

	api.gate = make(chan struct{})
	api.entered = make(chan struct{}, 1)
	w.SetOTP("123456")

	errc := make(chan error, 1)
	go func() { errc <- w.SubmitOTP(context.Background()) }()
	<-api.entered

	w.Back()
	require.ErrorIs(t, <-errc, ErrStale)

	st := w.State()
	assert.Equal(t, StepIdentify, st.Step)
	assert.Empty(t, st.ResetToken)
	assert.False(t, st.Loading)
}

func TestCallerContextCancelsCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &fakeAPI{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	w := New(context.Background(), api, WithClock(newFakeClock()))
	defer w.Close()
	w.SetIdentifier("alice")

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.SubmitIdentifier(ctx) }()
	<-api.entered

	cancel()
	require.NoError(t, <-errc)
	assert.ErrorIs(t, api.ctxErr, context.Canceled)
}

func TestParentCancelClosesWizard(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	w := New(parent, &fakeAPI{}, WithClock(newFakeClock()))
	defer w.Close()
	cancel()

	w.SetIdentifier("alice")
	require.ErrorIs(t, w.SubmitIdentifier(context.Background()), ErrClosed)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "identify", StepIdentify.String())
	assert.Equal(t, "verify", StepVerify.String())
	assert.Equal(t, "finalize", StepFinalize.String())
	assert.Equal(t, "unknown", Step(0).String())
}
