package activity

import "errors"

// Sentinel kinds for registry errors. Callers match them with errors.Is.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("student is already signed up")
	ErrNotSignedUp      = errors.New("student is not signed up for this activity")
	ErrActivityFull     = errors.New("activity is full")
	ErrInvalidSeed      = errors.New("invalid seed")
)

// IsNotFound reports whether err is a not-found kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrActivityNotFound)
}

// IsConflict reports whether err rejects a mutation because of the current
// participant list (duplicate, missing or full).
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadySignedUp) ||
		errors.Is(err, ErrNotSignedUp) ||
		errors.Is(err, ErrActivityFull)
}
