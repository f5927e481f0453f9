package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeRepo() *fakeRepo { return &fakeRepo{data: map[string][]byte{}} }

func (f *fakeRepo) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeRepo) Set(_ context.Context, key string, value []byte) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = append([]byte(nil), value...)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeRepo) Clear(context.Context) error {
	f.data = map[string][]byte{}
	return nil
}

func TestLoad_AbsentSlotIsZeroState(t *testing.T) {
	s := NewStore(newFakeRepo(), logging.Discard())

	st, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
}

func TestSaveThenLoad(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo, logging.Discard())
	ctx := context.Background()

	at := time.UnixMilli(1_717_171_717_000)
	s.Save(ctx, State{Authenticated: true, BiometricEnabled: true, LastAuthAt: &at})

	assert.JSONEq(t, `{"authenticated":true,"isBiometricEnabled":true,"lastAuthTime":1717171717000}`, string(repo.data[StorageKey]))

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, st.Authenticated)
	assert.True(t, st.BiometricEnabled)
	require.NotNil(t, st.LastAuthAt)
	assert.True(t, at.Equal(*st.LastAuthAt))
}

func TestSave_ClearedStateOmitsTimestamp(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo, logging.Discard())

	s.Save(context.Background(), State{BiometricEnabled: true})

	assert.JSONEq(t, `{"authenticated":false,"isBiometricEnabled":true}`, string(repo.data[StorageKey]))
}

func TestLoad_BadRecordsReadAsAbsent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{authenticated`},
		{name: "missing authenticated", raw: `{"isBiometricEnabled":true}`},
		{name: "missing capability flag", raw: `{"authenticated":true,"lastAuthTime":1}`},
		{name: "unknown field", raw: `{"authenticated":true,"isBiometricEnabled":true,"pin":"1234"}`},
		{name: "wrong type", raw: `{"authenticated":"yes","isBiometricEnabled":true}`},
		{name: "fractional millis", raw: `{"authenticated":true,"isBiometricEnabled":true,"lastAuthTime":1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			repo := newFakeRepo()
			repo.data[StorageKey] = []byte(tt.raw)
			s := NewStore(repo, logging.New(&buf, "warn"))

			st, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, State{}, st)
			assert.Contains(t, buf.String(), "discarding malformed session record")
		})
	}
}

func TestLoad_RepositoryErrorIsReturned(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("disk gone")
	s := NewStore(repo, logging.Discard())

	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, repo.getErr)
}

func TestSave_FailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	repo := newFakeRepo()
	repo.setErr = errors.New("read-only")
	s := NewStore(repo, logging.New(&buf, "info"))

	require.NotPanics(t, func() { s.Save(context.Background(), State{Authenticated: true}) })
	assert.Equal(t, 1, repo.sets)
	assert.Contains(t, buf.String(), "persistence_write_failure")
	assert.Contains(t, buf.String(), "read-only")
}

func TestState_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute

	fresh := now.Add(-299 * time.Second)
	edge := now.Add(-window)
	stale := now.Add(-301 * time.Second)

	assert.True(t, State{}.Expired(now, window), "no timestamp counts as expired")
	assert.False(t, State{LastAuthAt: &fresh}.Expired(now, window))
	assert.False(t, State{LastAuthAt: &edge}.Expired(now, window), "exactly the window is still valid")
	assert.True(t, State{LastAuthAt: &stale}.Expired(now, window))

	future := now.Add(time.Hour)
	assert.True(t, State{LastAuthAt: &future}.Expired(now, window), "a timestamp ahead of the clock is not trusted")
	assert.False(t, State{LastAuthAt: &now}.Expired(now, window))

	assert.True(t, State{Authenticated: true, LastAuthAt: &fresh}.Live(now, window))
	assert.False(t, State{Authenticated: false, LastAuthAt: &fresh}.Live(now, window))
	assert.False(t, State{Authenticated: true, LastAuthAt: &stale}.Live(now, window))
}

func TestState_Cleared(t *testing.T) {
	at := time.Now()
	st := State{Authenticated: true, BiometricEnabled: true, LastAuthAt: &at}.Cleared()

	assert.Equal(t, State{BiometricEnabled: true}, st)
}
