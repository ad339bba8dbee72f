package api

import (
	"errors"
	"strings"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingEmail = errors.New("email query parameter is required")
)

// Error tags a failure with the operation that produced it and an optional
// kind. Both Kind and Err are visible to errors.Is and errors.As.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// WrapKind returns err tagged with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap tags err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// detail returns the innermost cause recorded by an *Error, or err's text.
func detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return detail(e.Err)
	}
	if e != nil && e.Kind != nil {
		return e.Kind.Error()
	}
	return err.Error()
}
