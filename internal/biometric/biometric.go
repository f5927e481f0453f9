// Package biometric probes for and runs the identity check that gates the
// viewer. Authenticator is the seam; PasscodeAuthenticator is the terminal
// implementation, where an enrolled device passcode plays the role of a
// fingerprint or face.
package biometric

import "context"

// Outcome is the result of one challenge. Only Success grants access.
type Outcome int

const (
	Success Outcome = iota
	UserCancelled
	SystemCancelled
	AppCancelled
	FallbackChosen
	LockedOut
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case UserCancelled:
		return "user_cancel"
	case SystemCancelled:
		return "system_cancel"
	case AppCancelled:
		return "app_cancel"
	case FallbackChosen:
		return "user_fallback"
	case LockedOut:
		return "lockout"
	case Unavailable:
		return "not_available"
	default:
		return "unknown"
	}
}

// Capability is what the device reports before any challenge.
type Capability struct {
	HardwarePresent bool
	Enrolled        bool
}

// Capable is true when a challenge can actually be presented.
func (c Capability) Capable() bool {
	return c.HardwarePresent && c.Enrolled
}

// Authenticator presents a single identity challenge at a time. Expected
// results, cancellation included, come back as an Outcome; a non-nil error
// means the underlying platform could not be reached.
//
// Implementations do not guard against overlapping challenges; callers must.
type Authenticator interface {
	DetectCapability(ctx context.Context) (Capability, error)
	Challenge(ctx context.Context, prompt string) (Outcome, error)
}
