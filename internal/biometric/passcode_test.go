package biometric

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/database"
	"github.com/dmitrijs2005/txviewer/internal/logging"
	"github.com/dmitrijs2005/txviewer/internal/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script feeds canned terminal lines to the authenticator.
type script struct {
	lines []string
	reads int
	err   error
}

func (s *script) read() ([]byte, error) {
	if s.reads >= len(s.lines) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	line := s.lines[s.reads]
	s.reads++
	return []byte(line), nil
}

type brokenRepo struct{ metadata.Repository }

func (brokenRepo) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk gone")
}

func newRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func newAuth(t *testing.T, repo metadata.Repository, s *script, opts ...Option) (*PasscodeAuthenticator, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	base := []Option{
		WithOutput(out),
		WithTerminal(func() bool { return true }, s.read),
	}
	return NewPasscodeAuthenticator(repo, logging.Discard(), append(base, opts...)...), out
}

func TestDetectCapability(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	a, _ := newAuth(t, repo, &script{})

	c, err := a.DetectCapability(ctx)
	require.NoError(t, err)
	assert.Equal(t, Capability{HardwarePresent: true}, c)
	assert.False(t, c.Capable())

	require.NoError(t, a.Enroll(ctx, []byte("2468")))

	c, err = a.DetectCapability(ctx)
	require.NoError(t, err)
	assert.True(t, c.Capable())

	noTTY := NewPasscodeAuthenticator(repo, logging.Discard(),
		WithTerminal(func() bool { return false }, (&script{}).read))
	c, err = noTTY.DetectCapability(ctx)
	require.NoError(t, err)
	assert.Equal(t, Capability{Enrolled: true}, c)
}

func TestDetectCapability_RepositoryError(t *testing.T) {
	a, _ := newAuth(t, brokenRepo{}, &script{})

	_, err := a.DetectCapability(context.Background())
	require.Error(t, err)
}

func TestEnroll_RejectsShortPasscode(t *testing.T) {
	a, _ := newAuth(t, newRepo(t), &script{})

	err := a.Enroll(context.Background(), []byte(" 12 "))
	require.ErrorIs(t, err, ErrPasscodeTooShort)
}

func TestChallenge_Outcomes(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Outcome
	}{
		{name: "correct passcode", lines: []string{"2468"}, want: Success},
		{name: "surrounding whitespace ignored", lines: []string{"  2468 "}, want: Success},
		{name: "empty line cancels", lines: []string{""}, want: UserCancelled},
		{name: "fallback requested", lines: []string{FallbackInput}, want: FallbackChosen},
		{name: "wrong then right", lines: []string{"1111", "2468"}, want: Success},
		{name: "wrong then cancel", lines: []string{"1111", ""}, want: UserCancelled},
		{name: "input closed", lines: nil, want: SystemCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			a, out := newAuth(t, repo, &script{lines: tt.lines})
			require.NoError(t, a.Enroll(ctx, []byte("2468")))

			got, err := a.Challenge(ctx, "Unlock")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Unlock")
		})
	}
}

func TestChallenge_NotEnrolledIsUnavailable(t *testing.T) {
	s := &script{lines: []string{"2468"}}
	a, _ := newAuth(t, newRepo(t), s)

	got, err := a.Challenge(context.Background(), "Unlock")
	require.NoError(t, err)
	assert.Equal(t, Unavailable, got)
	assert.Zero(t, s.reads, "no prompt without an enrolment")
}

func TestChallenge_NoTerminalIsUnavailable(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	enrolled, _ := newAuth(t, repo, &script{})
	require.NoError(t, enrolled.Enroll(ctx, []byte("2468")))

	a := NewPasscodeAuthenticator(repo, logging.Discard(),
		WithTerminal(func() bool { return false }, (&script{}).read))

	got, err := a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, Unavailable, got)
}

func TestChallenge_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := newRepo(t)
	a, _ := newAuth(t, repo, &script{lines: []string{"2468"}})
	require.NoError(t, a.Enroll(ctx, []byte("2468")))
	cancel()

	got, err := a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, AppCancelled, got)
}

func TestChallenge_CancelWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newRepo(t)
	release := make(chan struct{})
	defer close(release)

	blocking := func() ([]byte, error) {
		<-release
		return nil, io.EOF
	}
	a := NewPasscodeAuthenticator(repo, logging.Discard(),
		WithOutput(io.Discard),
		WithTerminal(func() bool { return true }, blocking))
	require.NoError(t, a.Enroll(ctx, []byte("2468")))

	time.AfterFunc(20*time.Millisecond, cancel)

	got, err := a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, AppCancelled, got)
}

func TestChallenge_ReusesReadLeftByCancelledChallenge(t *testing.T) {
	repo := newRepo(t)
	lines := make(chan []byte)
	var reads atomic.Int32

	pending := func() ([]byte, error) {
		reads.Add(1)
		return <-lines, nil
	}
	a := NewPasscodeAuthenticator(repo, logging.Discard(),
		WithOutput(io.Discard),
		WithTerminal(func() bool { return true }, pending))
	require.NoError(t, a.Enroll(context.Background(), []byte("2468")))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	got, err := a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, AppCancelled, got)

	go func() { lines <- []byte("2468") }()
	got, err = a.Challenge(context.Background(), "Unlock")
	require.NoError(t, err)
	assert.Equal(t, Success, got)
	assert.Equal(t, int32(1), reads.Load(), "the second challenge must not start another terminal read")
}

func TestChallenge_ReadErrorIsSystemCancel(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	a, _ := newAuth(t, repo, &script{err: errors.New("tty detached")})
	require.NoError(t, a.Enroll(ctx, []byte("2468")))

	got, err := a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, SystemCancelled, got)
}

func TestChallenge_RepositoryErrorIsReturned(t *testing.T) {
	a, _ := newAuth(t, brokenRepo{}, &script{lines: []string{"2468"}})

	_, err := a.Challenge(context.Background(), "Unlock")
	require.Error(t, err)
}

func TestChallenge_LockoutAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	repo := newRepo(t)
	s := &script{lines: []string{"0000", "1111", "3333", "2468"}}
	a, _ := newAuth(t, repo, s, WithLockout(3, time.Minute), WithClock(clock))
	require.NoError(t, a.Enroll(ctx, []byte("2468")))

	got, err := a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, LockedOut, got)
	assert.Equal(t, 3, s.reads)

	// Still locked: no prompt, even though the right passcode is queued.
	got, err = a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, LockedOut, got)
	assert.Equal(t, 3, s.reads)

	now = now.Add(time.Minute)

	got, err = a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, Success, got)
}

func TestChallenge_SuccessResetsFailureCount(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s := &script{lines: []string{"0000", "2468", "0000", "2468"}}
	a, _ := newAuth(t, repo, s, WithLockout(2, time.Minute))
	require.NoError(t, a.Enroll(ctx, []byte("2468")))

	for i := 0; i < 2; i++ {
		got, err := a.Challenge(ctx, "Unlock")
		require.NoError(t, err)
		assert.Equal(t, Success, got)
	}
}

func TestReEnrollReplacesPasscode(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s := &script{lines: []string{"2468", "1357"}}
	a, _ := newAuth(t, repo, s, WithLockout(1, time.Minute))

	require.NoError(t, a.Enroll(ctx, []byte("1357")))
	require.NoError(t, a.Enroll(ctx, []byte("2468")))

	got, err := a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, Success, got)

	got, err = a.Challenge(ctx, "Unlock")
	require.NoError(t, err)
	assert.Equal(t, LockedOut, got, "old passcode no longer verifies")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "lockout", LockedOut.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}

func TestBiometricTypes(t *testing.T) {
	a, _ := newAuth(t, newRepo(t), &script{})
	assert.Equal(t, []string{"Passcode"}, a.BiometricTypes())
}
