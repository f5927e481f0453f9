// Package metadata stores small named values (the session slot, the
// passcode enrolment) in the local SQLite metadata table.
package metadata

import (
	"context"
)

// Repository is a byte-valued key-value store.
//
// Get returns (nil, nil) for a missing key. Delete of a missing key is not
// an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
