package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/common"
)

var errPasscodeMismatch = errors.New("passcodes do not match")

// Login runs the passcode challenge. A failed Initialize is retried first.
// On success the first page of transactions is shown.
func (a *App) Login(ctx context.Context) error {
	if err := a.coord.Initialize(ctx); err != nil {
		a.report(ctx, err)
		return err
	}

	if a.coord.IsAuthenticated(ctx) {
		printlnFn("Already logged in.")
		if a.currentScreen() == ScreenLogin {
			return a.Refresh(ctx)
		}
		return nil
	}

	if _, err := a.coord.Authenticate(ctx); err != nil {
		a.report(ctx, err)
		return err
	}

	printlnFn("Login successful.")
	return a.Refresh(ctx)
}

// Logout ends the session. The session subscriber moves the App back to
// the login screen.
func (a *App) Logout(ctx context.Context) error {
	a.coord.Logout(ctx)
	a.setScreen(ScreenLogin)
	printlnFn("Logged out.")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	state := a.coord.State(ctx)

	printlnFn(fmt.Sprintf("Session:    %s", state))
	if last := a.coord.LastAuthAt(ctx); last != nil {
		printlnFn(fmt.Sprintf("Last login: %s", last.Local().Format(time.Kitchen)))
	}
	if exp := a.coord.ExpiresAt(ctx); exp != nil {
		printlnFn(fmt.Sprintf("Expires in: %s", exp.Sub(a.now()).Round(time.Second)))
	}

	capable := "no (type 'enroll')"
	if a.coord.BiometricCapable() {
		capable = "yes (" + strings.Join(a.enroller.BiometricTypes(), ", ") + ")"
	}
	printlnFn(fmt.Sprintf("Biometrics: %s", capable))
	printlnFn(fmt.Sprintf("Unlocked:   %d transaction(s)", a.coord.Unlocks().Len()))
	printlnFn(fmt.Sprintf("Screen:     %s", a.currentScreen()))
	return nil
}

// Enroll sets a new passcode. Replacing an existing one requires passing
// the current challenge first.
func (a *App) Enroll(ctx context.Context) error {
	if err := a.coord.Initialize(ctx); err != nil {
		a.report(ctx, err)
		return err
	}

	if a.coord.BiometricCapable() {
		printlnFn("Confirm the current passcode to replace it.")
		if _, err := a.coord.Authenticate(ctx); err != nil {
			a.report(ctx, err)
			return err
		}
	}

	first, err := getPassword(a.out, "New passcode")
	if err != nil {
		a.report(ctx, err)
		return err
	}
	defer common.WipeByteArray(first)

	second, err := getPassword(a.out, "Repeat passcode")
	if err != nil {
		a.report(ctx, err)
		return err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		printlnFn("Passcodes do not match.")
		return errPasscodeMismatch
	}

	if err := a.enroller.Enroll(ctx, first); err != nil {
		a.report(ctx, err)
		return err
	}
	if _, err := a.coord.RefreshCapability(ctx); err != nil {
		a.report(ctx, err)
		return err
	}

	printlnFn("Passcode saved. Type 'login' to continue.")
	return nil
}

// Reset forgets the passcode and the stored session after confirmation.
func (a *App) Reset(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This forgets the passcode and the session. Type 'yes' to continue", a.out)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		printlnFn("Reset cancelled.")
		return nil
	}

	a.coord.Logout(ctx)
	if err := a.meta.Clear(ctx); err != nil {
		a.report(ctx, err)
		return err
	}
	if _, err := a.coord.RefreshCapability(ctx); err != nil {
		a.report(ctx, err)
		return err
	}

	a.setScreen(ScreenLogin)
	printlnFn("Reset complete. Type 'enroll' to set a new passcode.")
	return nil
}
