// Package repository defines the activity store interface and its in-memory
// implementation.
package repository

import (
	"context"

	"github.com/okian/activities/internal/domain/activity"
)

// Store provides read/write access to the activity registry.
type Store interface {
	// List returns a deep copy of every activity keyed by name.
	List(ctx context.Context) (activity.Catalog, error)

	// Get returns a copy of one activity.
	// Returns ErrNotFound if the name is unknown.
	Get(ctx context.Context, name string) (activity.Activity, error)

	// Signup appends email to the activity's participants and returns the
	// updated record. Returns ErrNotFound, ErrAlreadySignedUp or
	// ErrActivityFull (only when capacity is enforced).
	Signup(ctx context.Context, name, email string) (activity.Activity, error)

	// Unregister removes email from the activity's participants and returns
	// the updated record. Returns ErrNotFound or ErrNotSignedUp.
	Unregister(ctx context.Context, name, email string) (activity.Activity, error)
}
