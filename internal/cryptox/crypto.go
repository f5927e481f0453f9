// Package cryptox derives and checks the verifier for the device passcode
// that stands in for an enrolled biometric.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt stored at enrolment.
const SaltSize = 32

// DeriveKey stretches passcode with argon2id.
func DeriveKey(passcode []byte, salt []byte) []byte {
	return argon2.IDKey(passcode, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value kept on disk.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// Verify reports whether passcode matches the stored salt and verifier.
// The comparison is constant-time.
func Verify(passcode, salt, verifier []byte) bool {
	candidate := MakeVerifier(DeriveKey(passcode, salt))
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
