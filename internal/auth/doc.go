// Package auth owns the authentication session of the viewer.
//
// A Coordinator is the only writer of the session. It probes the
// authenticator once at Initialize, restores a stored session only while it
// is still inside the expiry window, and re-checks the window on every read:
// a session older than the window is cleared, persisted and announced the
// first time anyone looks at it. WatchExpiry merely triggers those reads on a
// timer so subscribers hear about expiry without user input.
//
// A Tracker, obtained from Coordinator.Unlocks, records which transactions
// were individually unlocked with a fresh challenge. It is emptied together
// with the session, inside the same critical section, so an unlock can never
// outlive the session it was granted in. Logging in does not unlock any
// transaction by itself.
//
// Every failure surfaces as *Error; use errors.Is with the Err* values to
// branch on its kind.
package auth
