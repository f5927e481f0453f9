package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/auth"
	"github.com/dmitrijs2005/txviewer/internal/config"
	"github.com/dmitrijs2005/txviewer/internal/logging"
	"github.com/dmitrijs2005/txviewer/internal/models"
	"github.com/dmitrijs2005/txviewer/internal/repositories/metadata"
	"github.com/dmitrijs2005/txviewer/internal/transactions"
)

type Screen string

const (
	ScreenLogin   Screen = "login"
	ScreenHistory Screen = "history"
	ScreenDetail  Screen = "detail"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Enroller sets the passcode the authenticator checks.
// *biometric.PasscodeAuthenticator satisfies it.
type Enroller interface {
	Enroll(ctx context.Context, passcode []byte) error
	BiometricTypes() []string
}

// Prompt readers, replaced in tests.
var (
	getSimpleText = ReadLine
	getPassword   = ReadSecret
)

type App struct {
	config   *config.Config
	coord    *auth.Coordinator
	provider transactions.Provider
	enroller Enroller
	meta     metadata.Repository
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time

	mu       sync.Mutex
	screen   Screen
	page     models.Page
	query    string
	category string
	current  []models.Transaction
	detail   *models.Transaction
}

func NewApp(
	c *config.Config,
	coord *auth.Coordinator,
	provider transactions.Provider,
	enroller Enroller,
	meta metadata.Repository,
	logger logging.Logger,
) *App {
	return &App{
		config:   c,
		coord:    coord,
		provider: provider,
		enroller: enroller,
		meta:     meta,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
		screen:   ScreenLogin,
	}
}

// Run initializes authentication, starts the expiry watcher and blocks in
// the REPL until the user leaves or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.watchSession(ctx)()

	printlnFn("Welcome to txviewer (type 'help' for commands)")

	if err := a.coord.Initialize(ctx); err != nil {
		a.report(ctx, err)
	} else if a.coord.IsAuthenticated(ctx) {
		printlnFn("Session restored.")
		_ = a.Refresh(ctx)
	} else if !a.coord.BiometricCapable() {
		printlnFn("No passcode is set up yet. Type 'enroll' to create one.")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.coord.WatchExpiry(watchCtx, a.config.PollInterval)

	// The scanner cannot be interrupted, so the REPL is abandoned on cancel.
	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, func() string { return a.status(ctx) }, bufio.NewScanner(a.reader))
	}()

	select {
	case <-done:
	case <-ctx.Done():
		printlnFn("\nBye!")
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.coord.IsAuthenticated(ctx)
}

func (a *App) currentScreen() Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

func (a *App) setScreen(s Screen) {
	a.mu.Lock()
	a.screen = s
	if s != ScreenDetail {
		a.detail = nil
	}
	a.mu.Unlock()
}

// watchSession subscribes the App to session changes until the returned
// func is called.
func (a *App) watchSession(ctx context.Context) (cancel func()) {
	return a.coord.Subscribe(func(ch auth.Change) { a.onSessionChange(ctx, ch) })
}

// onSessionChange returns to the login screen whenever the session ends.
func (a *App) onSessionChange(ctx context.Context, ch auth.Change) {
	if ch.Authenticated {
		return
	}

	a.mu.Lock()
	a.screen = ScreenLogin
	a.detail = nil
	a.current = nil
	a.page = models.Page{}
	a.mu.Unlock()

	if ch.Reason == auth.ReasonExpired {
		a.logger.Info(ctx, "session expired, returning to login")
		printlnFn("Your session has expired. Type 'login' to continue.")
	}
}

func (a *App) status(ctx context.Context) string {
	expires := a.coord.ExpiresAt(ctx)
	screen := a.currentScreen()
	if expires == nil {
		return fmt.Sprintf("(%s)", screen)
	}
	left := expires.Sub(a.now()).Round(time.Second)
	if left < 0 {
		left = 0
	}
	return fmt.Sprintf("(%s, %s left)", screen, left)
}

// requireSession reports ErrNotAuthenticated, and tells the user, when no
// session is live.
func (a *App) requireSession(ctx context.Context) error {
	if a.coord.IsAuthenticated(ctx) {
		return nil
	}
	a.setScreen(ScreenLogin)
	printlnFn("Please log in first (type 'login').")
	return ErrNotAuthenticated
}

// report prints err for the user and logs it.
func (a *App) report(ctx context.Context, err error) {
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		a.logger.Error(ctx, "command failed", "err", err)
		printlnFn("Error:", err.Error())
		return
	}

	a.logger.Debug(ctx, "authentication failed", "kind", authErr.Kind.String(), "err", authErr.Cause)

	switch {
	case authErr.Cancelled():
		printlnFn(authErr.Message + ". You can try again.")
	case authErr.Kind == auth.KindInitialization:
		printlnFn(authErr.Message + ". Type 'login' to retry.")
	case authErr.Kind == auth.KindBiometricUnavailable:
		printlnFn(authErr.Message + ". Type 'enroll' to set a passcode.")
	case authErr.Kind == auth.KindFallbackChosen:
		printlnFn(authErr.Message + ". No other sign-in method is available.")
	default:
		printlnFn(authErr.Message + ".")
	}
}
