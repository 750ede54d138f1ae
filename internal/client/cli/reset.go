package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/docvault/internal/client/reset"
	"github.com/dmitrijs2005/docvault/internal/client/routes"
	"github.com/dmitrijs2005/docvault/internal/common"
)

// errWizardCancelled ends the reset flow at the user's request.
var errWizardCancelled = errors.New("password reset cancelled")

// ResetPassword walks the user through the reset wizard. At any prompt
// "back" returns to the previous step and "cancel" leaves. A successful
// reset lands on the login route.
func (a *App) ResetPassword(ctx context.Context) error {
	if !a.navigate(routes.ResetPassword) {
		return nil
	}

	w := reset.New(ctx, a.resetAPI, reset.WithCooldown(a.config.ResendCooldown))
	defer w.Close()

	for !w.Done() && !w.Exited() {
		var err error
		switch w.Step() {
		case reset.StepIdentify:
			err = a.resetIdentify(ctx, w)
		case reset.StepVerify:
			err = a.resetVerify(ctx, w)
		case reset.StepFinalize:
			err = a.resetFinalize(ctx, w)
		}

		switch {
		case errors.Is(err, errWizardCancelled):
			a.notify.Info("Password reset cancelled")
			a.navigate(routes.Landing)
			return nil
		case errors.Is(err, reset.ErrClosed):
			return err
		case errors.As(err, new(inputError)):
			return err
		case err != nil:
			a.notify.Error(err)
		}
	}

	if w.Exited() {
		a.navigate(routes.Landing)
		return nil
	}

	a.notify.Success(orDefault(w.State().Message, "Password reset successfully! You can now login."))
	a.navigate(routes.Login)
	return nil
}

// inputError marks a failure to read from the user, which ends the flow.
type inputError struct{ error }

func (e inputError) Unwrap() error { return e.error }

// wizardCommand handles the navigation words shared by every step.
func wizardCommand(w *reset.Wizard, input string) (handled bool, err error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "back":
		w.Back()
		return true, nil
	case "cancel":
		return true, errWizardCancelled
	}
	return false, nil
}

func (a *App) resetIdentify(ctx context.Context, w *reset.Wizard) error {
	input, err := getSimpleText(a.reader, "Step 1/3: enter your username or email (back, cancel)", a.out)
	if err != nil {
		return inputError{err}
	}
	if handled, err := wizardCommand(w, input); handled {
		return err
	}

	w.SetIdentifier(input)
	if err := w.SubmitIdentifier(ctx); err != nil {
		return err
	}
	a.notify.Success(orDefault(w.State().Message, "OTP sent to your email successfully"))
	return nil
}

func (a *App) resetVerify(ctx context.Context, w *reset.Wizard) error {
	prompt := "Step 2/3: enter the 6-digit code (resend, back, cancel)"
	if !w.CanResend() {
		prompt = fmt.Sprintf("Step 2/3: enter the 6-digit code (resend in %ds, back, cancel)", secondsLeft(w))
	}
	input, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return inputError{err}
	}
	if handled, err := wizardCommand(w, input); handled {
		return err
	}

	if strings.EqualFold(strings.TrimSpace(input), "resend") {
		if err := w.Resend(ctx); err != nil {
			if errors.Is(err, reset.ErrResendCooldown) {
				a.notify.Info(fmt.Sprintf("You can resend the code in %ds", secondsLeft(w)))
				return nil
			}
			return err
		}
		a.notify.Success("OTP resent successfully")
		return nil
	}

	if otp := w.SetOTP(input); otp != strings.TrimSpace(input) {
		a.notify.Info(fmt.Sprintf("Using code %q", otp))
	}
	if err := w.SubmitOTP(ctx); err != nil {
		return err
	}
	a.notify.Success(orDefault(w.State().Message, "OTP verified successfully"))
	return nil
}

func (a *App) resetFinalize(ctx context.Context, w *reset.Wizard) error {
	newPassword, err := getPassword(a.reader, "Step 3/3: new password (at least 8 characters; back, cancel)", a.out)
	if err != nil {
		return inputError{err}
	}
	defer common.WipeByteArray(newPassword)
	if handled, err := wizardCommand(w, string(newPassword)); handled {
		return err
	}

	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		return inputError{err}
	}
	defer common.WipeByteArray(confirm)

	return w.SubmitPassword(ctx, string(newPassword), string(confirm))
}

func secondsLeft(w *reset.Wizard) int {
	return int(math.Ceil(w.ResendIn().Seconds()))
}
