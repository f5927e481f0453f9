package auth

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/biometric"
	"github.com/dmitrijs2005/txviewer/internal/common"
	"github.com/dmitrijs2005/txviewer/internal/logging"
	"github.com/dmitrijs2005/txviewer/internal/session"
)

const (
	DefaultExpiryWindow = 5 * time.Minute
	DefaultPrompt       = "Authenticate to view your transactions"
	UnlockPrompt        = "Authenticate to view transaction details"
)

// State is the coordinator's position in the login state machine.
type State int

const (
	Uninitialized State = iota
	Unauthenticated
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Reason says why the session changed.
type Reason int

const (
	ReasonLogin Reason = iota
	ReasonLogout
	ReasonExpired
	ReasonRestored
)

func (r Reason) String() string {
	switch r {
	case ReasonLogin:
		return "login"
	case ReasonLogout:
		return "logout"
	case ReasonExpired:
		return "expired"
	case ReasonRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after every session transition.
type Change struct {
	Authenticated bool
	Reason        Reason
}

// SessionStore is the persistence the coordinator needs. *session.Store
// satisfies it.
type SessionStore interface {
	Load(ctx context.Context) (session.State, error)
	Save(ctx context.Context, st session.State)
}

type Option func(*Coordinator)

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithExpiryWindow(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithPrompt sets the text shown by a login challenge.
func WithPrompt(prompt string) Option {
	return func(c *Coordinator) { c.prompt = prompt }
}

type Coordinator struct {
	store         SessionStore
	authenticator biometric.Authenticator
	logger        logging.Logger

	now    func() time.Time
	window time.Duration
	prompt string

	mu             sync.Mutex
	initialized    bool
	authenticating bool
	capable        bool
	session        session.State
	unlocks        *Tracker

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

func NewCoordinator(store SessionStore, authenticator biometric.Authenticator, logger logging.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:         store,
		authenticator: authenticator,
		logger:        logger,
		now:           time.Now,
		window:        DefaultExpiryWindow,
		prompt:        DefaultPrompt,
		subs:          make(map[int]func(Change)),
	}
	c.unlocks = &Tracker{coord: c, ids: make(map[string]struct{})}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize probes the authenticator and restores the stored session if it
// is still inside the expiry window. It succeeds once; later calls do
// nothing. A failed Initialize may be retried.
func (c *Coordinator) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}

	capability, err := c.authenticator.DetectCapability(ctx)
	if err != nil {
		c.mu.Unlock()
		c.logger.Error(ctx, "capability probe failed", "err", err)
		return newError(KindInitialization, err)
	}

	stored, err := c.store.Load(ctx)
	if err != nil {
		c.mu.Unlock()
		c.logger.Error(ctx, "session load failed", "err", err)
		return newError(KindInitialization, err)
	}

	st := stored
	st.BiometricEnabled = capability.Capable()
	restored := st.Live(c.now(), c.window)
	if !restored {
		st = st.Cleared()
	}
	if st.Authenticated != stored.Authenticated ||
		st.BiometricEnabled != stored.BiometricEnabled ||
		(st.LastAuthAt == nil) != (stored.LastAuthAt == nil) {
		c.store.Save(ctx, st)
	}
	if stored.Authenticated && !restored {
		c.logger.Info(ctx, "discarded stale session")
	}

	c.session = st
	c.capable = st.BiometricEnabled
	c.initialized = true
	c.mu.Unlock()

	c.logger.Debug(ctx, "auth initialized", "capable", st.BiometricEnabled, "restored", restored)
	if restored {
		c.notify(Change{Authenticated: true, Reason: ReasonRestored})
	}
	return nil
}

// IsAuthenticated reports whether a session is live. A session found past
// its window is ended here.
func (c *Coordinator) IsAuthenticated(ctx context.Context) bool {
	c.mu.Lock()
	expired := c.expireLocked(ctx)
	live := c.initialized && c.session.Authenticated
	c.mu.Unlock()

	if expired {
		c.notify(Change{Authenticated: false, Reason: ReasonExpired})
	}
	return live
}

// Authenticate presents a login challenge. It reports true on success;
// otherwise the returned *Error says why. A failed challenge leaves the
// session as it was.
func (c *Coordinator) Authenticate(ctx context.Context) (bool, error) {
	return c.authenticate(ctx, c.prompt, nil)
}

// authenticate runs one challenge. onSuccess, if set, runs under c.mu in the
// same critical section that marks the session live.
func (c *Coordinator) authenticate(ctx context.Context, prompt string, onSuccess func()) (bool, error) {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return false, newError(KindInitialization, common.ErrorNotInitialized)
	}
	if c.authenticating {
		c.mu.Unlock()
		return false, newError(KindInProgress, nil)
	}
	expired := c.expireLocked(ctx)
	if !c.capable {
		c.mu.Unlock()
		c.notifyExpired(expired)
		return false, newError(KindBiometricUnavailable, nil)
	}
	c.authenticating = true
	c.mu.Unlock()
	c.notifyExpired(expired)

	outcome, err := c.authenticator.Challenge(ctx, prompt)

	c.mu.Lock()
	c.authenticating = false
	if err != nil || outcome != biometric.Success {
		expired = c.expireLocked(ctx)
		c.mu.Unlock()
		c.notifyExpired(expired)

		if err != nil {
			c.logger.Error(ctx, "authentication challenge failed", "err", err)
			return false, newError(KindInfrastructure, err)
		}
		c.logger.Info(ctx, "authentication not granted", "outcome", outcome.String())
		return false, errorFromOutcome(outcome)
	}

	now := c.now()
	c.session = session.State{
		Authenticated:    true,
		BiometricEnabled: c.capable,
		LastAuthAt:       &now,
	}
	c.store.Save(ctx, c.session)
	if onSuccess != nil {
		onSuccess()
	}
	c.mu.Unlock()

	c.logger.Info(ctx, "authenticated")
	c.notify(Change{Authenticated: true, Reason: ReasonLogin})
	return true, nil
}

// Logout ends the session. It always succeeds.
func (c *Coordinator) Logout(ctx context.Context) {
	c.mu.Lock()
	wasLive := c.session.Authenticated
	c.session = c.session.Cleared()
	c.unlocks.Clear()
	if c.initialized {
		c.store.Save(ctx, c.session)
	}
	c.mu.Unlock()

	if wasLive {
		c.logger.Info(ctx, "logged out")
		c.notify(Change{Authenticated: false, Reason: ReasonLogout})
	}
}

// RefreshCapability probes the authenticator again, for example after a new
// enrolment, and records the result.
func (c *Coordinator) RefreshCapability(ctx context.Context) (bool, error) {
	capability, err := c.authenticator.DetectCapability(ctx)
	if err != nil {
		return false, newError(KindInfrastructure, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.capable = capability.Capable()
	if c.initialized && c.session.BiometricEnabled != c.capable {
		c.session.BiometricEnabled = c.capable
		c.store.Save(ctx, c.session)
	}
	return c.capable, nil
}

// State returns the current machine state, applying expiry first.
func (c *Coordinator) State(ctx context.Context) State {
	c.mu.Lock()
	expired := c.expireLocked(ctx)
	var st State
	switch {
	case !c.initialized:
		st = Uninitialized
	case c.authenticating:
		st = Authenticating
	case c.session.Authenticated:
		st = Authenticated
	default:
		st = Unauthenticated
	}
	c.mu.Unlock()

	c.notifyExpired(expired)
	return st
}

func (c *Coordinator) BiometricCapable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capable
}

// LastAuthAt returns the time of the last successful challenge, or nil.
// A lapsed session is ended first.
func (c *Coordinator) LastAuthAt(ctx context.Context) *time.Time {
	c.mu.Lock()
	expired := c.expireLocked(ctx)
	var last *time.Time
	if c.session.LastAuthAt != nil {
		t := *c.session.LastAuthAt
		last = &t
	}
	c.mu.Unlock()

	c.notifyExpired(expired)
	return last
}

// ExpiresAt returns when the current session lapses, or nil when there is
// no live session.
func (c *Coordinator) ExpiresAt(ctx context.Context) *time.Time {
	c.mu.Lock()
	expired := c.expireLocked(ctx)
	var at *time.Time
	if c.session.Authenticated && c.session.LastAuthAt != nil {
		t := c.session.LastAuthAt.Add(c.window)
		at = &t
	}
	c.mu.Unlock()

	c.notifyExpired(expired)
	return at
}

func (c *Coordinator) Unlocks() *Tracker {
	return c.unlocks
}

// Subscribe registers fn for session changes. fn runs on the goroutine that
// caused the change and must not block. The returned func unsubscribes.
func (c *Coordinator) Subscribe(fn func(Change)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// WatchExpiry re-reads the session every interval until ctx is done, so
// expiry is announced even when nobody else is asking.
func (c *Coordinator) WatchExpiry(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.IsAuthenticated(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// expireLocked ends a session that has outlived the window. c.mu must be held.
func (c *Coordinator) expireLocked(ctx context.Context) bool {
	if !c.session.Authenticated || !c.session.Expired(c.now(), c.window) {
		return false
	}
	c.session = c.session.Cleared()
	c.unlocks.Clear()
	c.store.Save(ctx, c.session)
	c.logger.Info(ctx, "session expired")
	return true
}

func (c *Coordinator) notifyExpired(expired bool) {
	if expired {
		c.notify(Change{Authenticated: false, Reason: ReasonExpired})
	}
}

func (c *Coordinator) notify(ch Change) {
	c.subMu.Lock()
	fns := make([]func(Change), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}
