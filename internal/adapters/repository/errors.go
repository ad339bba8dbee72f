package repository

import "github.com/okian/activities/internal/domain/activity"

// Sentinel kinds returned by stores. They are the domain kinds so callers can
// match either name with errors.Is.
var (
	ErrNotFound        = activity.ErrActivityNotFound
	ErrAlreadySignedUp = activity.ErrAlreadySignedUp
	ErrNotSignedUp     = activity.ErrNotSignedUp
	ErrActivityFull    = activity.ErrActivityFull
)
