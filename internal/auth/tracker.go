package auth

import (
	"context"
	"sync"
)

// Tracker is the set of transactions unlocked in the current session. It is
// never persisted.
type Tracker struct {
	coord *Coordinator

	mu  sync.Mutex
	ids map[string]struct{}
}

// IsUnlocked reports whether id was unlocked in the session that is live
// now. An expired session is ended first, which empties the set.
func (t *Tracker) IsUnlocked(ctx context.Context, id string) bool {
	if !t.coord.IsAuthenticated(ctx) {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.ids[id]
	return ok
}

// Unlock runs a challenge for id unless it is already unlocked. On failure
// the coordinator's *Error is returned and id stays locked.
func (t *Tracker) Unlock(ctx context.Context, id string) (bool, error) {
	if t.IsUnlocked(ctx, id) {
		return true, nil
	}
	return t.coord.authenticate(ctx, UnlockPrompt, func() { t.add(id) })
}

// Clear empties the set without touching the session.
func (t *Tracker) Clear() {
	t.mu.Lock()
	clear(t.ids)
	t.mu.Unlock()
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}

func (t *Tracker) add(id string) {
	t.mu.Lock()
	t.ids[id] = struct{}{}
	t.mu.Unlock()
}
