package auth

import "github.com/dmitrijs2005/txviewer/internal/biometric"

// Kind classifies an authentication failure.
type Kind int

const (
	KindInitialization Kind = iota + 1
	KindBiometricUnavailable
	KindUserCancelled
	KindSystemCancelled
	KindAppCancelled
	KindFallbackChosen
	KindLockedOut
	// KindPersistenceWrite is only ever logged.
	KindPersistenceWrite
	KindInProgress
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindInitialization:
		return "initialization"
	case KindBiometricUnavailable:
		return "biometric_unavailable"
	case KindUserCancelled:
		return "user_cancelled"
	case KindSystemCancelled:
		return "system_cancelled"
	case KindAppCancelled:
		return "app_cancelled"
	case KindFallbackChosen:
		return "fallback_chosen"
	case KindLockedOut:
		return "locked_out"
	case KindPersistenceWrite:
		return "persistence_write_failure"
	case KindInProgress:
		return "in_progress"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Message is the user-facing text for k.
func (k Kind) Message() string {
	switch k {
	case KindInitialization:
		return "Failed to initialize authentication service"
	case KindBiometricUnavailable:
		return "Biometric authentication is not available on this device"
	case KindUserCancelled:
		return "Authentication was cancelled"
	case KindSystemCancelled:
		return "Authentication was cancelled by the system"
	case KindAppCancelled:
		return "Authentication was cancelled by the app"
	case KindFallbackChosen:
		return "User chose fallback authentication"
	case KindLockedOut:
		return "Biometric authentication has been disabled or too many failed attempts"
	case KindPersistenceWrite:
		return "Failed to save authentication state"
	case KindInProgress:
		return "Authentication is already in progress"
	default:
		return "An unexpected error occurred during authentication"
	}
}

// Error is the only error type returned by the coordinator. Two Errors
// match under errors.Is when their kinds are equal, so the Err* values
// below can be used as targets.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

var (
	ErrInitialization       = &Error{Kind: KindInitialization, Message: KindInitialization.Message()}
	ErrBiometricUnavailable = &Error{Kind: KindBiometricUnavailable, Message: KindBiometricUnavailable.Message()}
	ErrUserCancelled        = &Error{Kind: KindUserCancelled, Message: KindUserCancelled.Message()}
	ErrSystemCancelled      = &Error{Kind: KindSystemCancelled, Message: KindSystemCancelled.Message()}
	ErrAppCancelled         = &Error{Kind: KindAppCancelled, Message: KindAppCancelled.Message()}
	ErrFallbackChosen       = &Error{Kind: KindFallbackChosen, Message: KindFallbackChosen.Message()}
	ErrLockedOut            = &Error{Kind: KindLockedOut, Message: KindLockedOut.Message()}
	ErrInProgress           = &Error{Kind: KindInProgress, Message: KindInProgress.Message()}
	ErrInfrastructure       = &Error{Kind: KindInfrastructure, Message: KindInfrastructure.Message()}
)

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Message: kind.Message(), Cause: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Cancelled reports whether the user, the app or the system dismissed the
// challenge.
func (e *Error) Cancelled() bool {
	switch e.Kind {
	case KindUserCancelled, KindSystemCancelled, KindAppCancelled:
		return true
	}
	return false
}

func errorFromOutcome(o biometric.Outcome) *Error {
	switch o {
	case biometric.UserCancelled:
		return newError(KindUserCancelled, nil)
	case biometric.SystemCancelled:
		return newError(KindSystemCancelled, nil)
	case biometric.AppCancelled:
		return newError(KindAppCancelled, nil)
	case biometric.FallbackChosen:
		return newError(KindFallbackChosen, nil)
	case biometric.LockedOut:
		return newError(KindLockedOut, nil)
	case biometric.Unavailable:
		return newError(KindBiometricUnavailable, nil)
	default:
		return newError(KindInfrastructure, nil)
	}
}
