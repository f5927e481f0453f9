// Package common defines sentinel errors and small helpers shared by the
// storage, service and CLI layers. Callers should match errors with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors.
	ErrorInvalidArgument = errors.New("invalid argument")

	// Returned by components used before their Initialize call succeeded.
	ErrorNotInitialized = errors.New("not initialized")
)
