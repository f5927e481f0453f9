package biometric

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/common"
	"github.com/dmitrijs2005/txviewer/internal/cryptox"
	"github.com/dmitrijs2005/txviewer/internal/logging"
	"github.com/dmitrijs2005/txviewer/internal/repositories/metadata"
	"golang.org/x/term"
)

const (
	// Metadata slots holding the enrolment.
	SaltKey     = "biometric_salt"
	VerifierKey = "biometric_verifier"

	// FallbackInput, typed at the prompt, asks for a non-biometric path.
	FallbackInput = "f"

	MinPasscodeLength = 4

	DefaultMaxAttempts     = 5
	DefaultLockoutDuration = 30 * time.Second
)

var ErrPasscodeTooShort = fmt.Errorf("passcode must be at least %d characters", MinPasscodeLength)

// PasscodeAuthenticator challenges the user for the enrolled passcode on
// the controlling terminal.
//
// A wrong passcode re-prompts within the same challenge. After MaxAttempts
// consecutive misses the sensor locks for LockoutDuration, during which
// every challenge returns LockedOut without prompting.
type PasscodeAuthenticator struct {
	repo   metadata.Repository
	logger logging.Logger
	out    io.Writer

	isTerminal func() bool
	readSecret func() ([]byte, error)
	now        func() time.Time

	maxAttempts     int
	lockoutDuration time.Duration

	mu          sync.Mutex
	failures    int
	lockedUntil time.Time

	readMu  sync.Mutex
	pending chan readResult
}

type readResult struct {
	b   []byte
	err error
}

type Option func(*PasscodeAuthenticator)

func WithOutput(w io.Writer) Option {
	return func(p *PasscodeAuthenticator) { p.out = w }
}

// WithTerminal replaces the terminal probe and the no-echo reader.
func WithTerminal(isTerminal func() bool, readSecret func() ([]byte, error)) Option {
	return func(p *PasscodeAuthenticator) {
		p.isTerminal = isTerminal
		p.readSecret = readSecret
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *PasscodeAuthenticator) { p.now = now }
}

// WithLockout sets the lockout policy. Non-positive values keep the defaults.
func WithLockout(maxAttempts int, d time.Duration) Option {
	return func(p *PasscodeAuthenticator) {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
		if d > 0 {
			p.lockoutDuration = d
		}
	}
}

func NewPasscodeAuthenticator(repo metadata.Repository, logger logging.Logger, opts ...Option) *PasscodeAuthenticator {
	p := &PasscodeAuthenticator{
		repo:            repo,
		logger:          logger,
		out:             os.Stdout,
		isTerminal:      func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		readSecret:      func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) },
		now:             time.Now,
		maxAttempts:     DefaultMaxAttempts,
		lockoutDuration: DefaultLockoutDuration,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BiometricTypes names the kinds of credential this authenticator accepts.
func (p *PasscodeAuthenticator) BiometricTypes() []string {
	return []string{"Passcode"}
}

// Enroll stores a verifier for passcode, replacing any earlier enrolment.
func (p *PasscodeAuthenticator) Enroll(ctx context.Context, passcode []byte) error {
	code := []byte(strings.TrimSpace(string(passcode)))
	defer common.WipeByteArray(code)
	if len(code) < MinPasscodeLength {
		return ErrPasscodeTooShort
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	verifier := cryptox.MakeVerifier(cryptox.DeriveKey(code, salt))

	// Drop the verifier first so a half-written enrolment reads as "not enrolled".
	if err := p.repo.Delete(ctx, VerifierKey); err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	if err := p.repo.Set(ctx, SaltKey, salt); err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	if err := p.repo.Set(ctx, VerifierKey, verifier); err != nil {
		return fmt.Errorf("enroll: %w", err)
	}

	p.mu.Lock()
	p.failures = 0
	p.lockedUntil = time.Time{}
	p.mu.Unlock()

	p.logger.Info(ctx, "passcode enrolled")
	return nil
}

func (p *PasscodeAuthenticator) DetectCapability(ctx context.Context) (Capability, error) {
	salt, verifier, err := p.enrolment(ctx)
	if err != nil {
		return Capability{}, err
	}
	return Capability{
		HardwarePresent: p.isTerminal(),
		Enrolled:        len(salt) > 0 && len(verifier) > 0,
	}, nil
}

func (p *PasscodeAuthenticator) Challenge(ctx context.Context, prompt string) (Outcome, error) {
	if ctx.Err() != nil {
		return AppCancelled, nil
	}
	if !p.isTerminal() {
		return Unavailable, nil
	}

	salt, verifier, err := p.enrolment(ctx)
	if err != nil {
		return 0, err
	}
	if len(salt) == 0 || len(verifier) == 0 {
		return Unavailable, nil
	}

	for {
		if p.locked() {
			return LockedOut, nil
		}

		fmt.Fprintf(p.out, "%s\n(enter passcode, empty line to cancel, %q for another method): ", prompt, FallbackInput)
		input, err := p.read(ctx)
		fmt.Fprintln(p.out)

		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return AppCancelled, nil
		case err != nil:
			p.logger.Debug(ctx, "passcode prompt closed", "err", err)
			return SystemCancelled, nil
		}

		outcome, retry := p.check(input, salt, verifier)
		common.WipeByteArray(input)
		if !retry {
			return outcome, nil
		}
		fmt.Fprintln(p.out, "Not recognized, try again.")
	}
}

// check classifies one entry. retry is true for a wrong passcode that has
// not yet exhausted the attempt budget.
func (p *PasscodeAuthenticator) check(input, salt, verifier []byte) (outcome Outcome, retry bool) {
	entry := strings.TrimSpace(string(input))
	switch entry {
	case "":
		return UserCancelled, false
	case FallbackInput:
		return FallbackChosen, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if cryptox.Verify([]byte(entry), salt, verifier) {
		p.failures = 0
		return Success, false
	}

	p.failures++
	if p.failures >= p.maxAttempts {
		p.failures = 0
		p.lockedUntil = p.now().Add(p.lockoutDuration)
		return LockedOut, false
	}
	return 0, true
}

func (p *PasscodeAuthenticator) locked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now().Before(p.lockedUntil)
}

// read waits for one line from the terminal or for ctx to end. At most one
// terminal read is in flight: a read left behind by a cancelled challenge
// supplies the answer to the next one.
func (p *PasscodeAuthenticator) read(ctx context.Context) ([]byte, error) {
	p.readMu.Lock()
	if p.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			b, err := p.readSecret()
			ch <- readResult{b: b, err: err}
		}()
		p.pending = ch
	}
	pending := p.pending
	p.readMu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-pending:
		p.readMu.Lock()
		p.pending = nil
		p.readMu.Unlock()
		return r.b, r.err
	}
}

func (p *PasscodeAuthenticator) enrolment(ctx context.Context) (salt, verifier []byte, err error) {
	salt, err = p.repo.Get(ctx, SaltKey)
	if err != nil {
		return nil, nil, fmt.Errorf("read enrolment: %w", err)
	}
	verifier, err = p.repo.Get(ctx, VerifierKey)
	if err != nil {
		return nil, nil, fmt.Errorf("read enrolment: %w", err)
	}
	return salt, verifier, nil
}
