// Package session persists the authentication session in a single
// key-value slot so it survives a restart of the CLI.
//
// The slot holds JSON of the form
//
//	{"authenticated": true, "isBiometricEnabled": true, "lastAuthTime": 1717171717000}
//
// where lastAuthTime is Unix milliseconds and may be absent. A slot that is
// missing, unparsable, lacks a required field or carries an unknown one is
// read back as the zero State.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/logging"
	"github.com/dmitrijs2005/txviewer/internal/repositories/metadata"
)

// StorageKey names the metadata slot holding the session.
const StorageKey = "auth_state"

// State is the persisted session.
type State struct {
	Authenticated    bool
	BiometricEnabled bool
	LastAuthAt       *time.Time
}

// Expired reports whether the last authentication is older than window,
// missing, or later than now.
func (s State) Expired(now time.Time, window time.Duration) bool {
	if s.LastAuthAt == nil || s.LastAuthAt.After(now) {
		return true
	}
	return now.Sub(*s.LastAuthAt) > window
}

// Live reports whether s is an authenticated session still inside window.
func (s State) Live(now time.Time, window time.Duration) bool {
	return s.Authenticated && !s.Expired(now, window)
}

// Cleared drops the authentication but keeps the capability flag.
func (s State) Cleared() State {
	return State{BiometricEnabled: s.BiometricEnabled}
}

type record struct {
	Authenticated      *bool  `json:"authenticated"`
	IsBiometricEnabled *bool  `json:"isBiometricEnabled"`
	LastAuthTime       *int64 `json:"lastAuthTime,omitempty"`
}

// Store reads and writes the session slot.
type Store struct {
	repo   metadata.Repository
	logger logging.Logger
}

func NewStore(repo metadata.Repository, logger logging.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Load returns the stored session. Only a failing repository produces an
// error; bad content is logged and reported as the zero State.
func (s *Store) Load(ctx context.Context) (State, error) {
	raw, err := s.repo.Get(ctx, StorageKey)
	if err != nil {
		return State{}, fmt.Errorf("load session: %w", err)
	}
	if len(raw) == 0 {
		return State{}, nil
	}

	st, err := decode(raw)
	if err != nil {
		s.logger.Warn(ctx, "discarding malformed session record", "err", err)
		return State{}, nil
	}
	return st, nil
}

// Save overwrites the slot. A failed write is logged and otherwise ignored:
// the in-memory session must not depend on it.
func (s *Store) Save(ctx context.Context, st State) {
	raw, err := encode(st)
	if err == nil {
		err = s.repo.Set(ctx, StorageKey, raw)
	}
	if err != nil {
		s.logger.Error(ctx, "session write failed", "kind", "persistence_write_failure", "err", err)
	}
}

func encode(st State) ([]byte, error) {
	rec := record{
		Authenticated:      &st.Authenticated,
		IsBiometricEnabled: &st.BiometricEnabled,
	}
	if st.LastAuthAt != nil {
		ms := st.LastAuthAt.UnixMilli()
		rec.LastAuthTime = &ms
	}
	return json.Marshal(rec)
}

func decode(raw []byte) (State, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var rec record
	if err := dec.Decode(&rec); err != nil {
		return State{}, err
	}
	if rec.Authenticated == nil || rec.IsBiometricEnabled == nil {
		return State{}, fmt.Errorf("session record is missing required fields")
	}

	st := State{
		Authenticated:    *rec.Authenticated,
		BiometricEnabled: *rec.IsBiometricEnabled,
	}
	if rec.LastAuthTime != nil {
		t := time.UnixMilli(*rec.LastAuthTime)
		st.LastAuthAt = &t
	}
	return st, nil
}
