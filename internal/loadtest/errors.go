package loadtest

import "errors"

// Error constants
var (
	ErrInvalidConfig    = errors.New("invalid load test config")
	ErrUnhealthy        = errors.New("service is not healthy")
	ErrActivityMissing  = errors.New("activity not found in listing")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrVerification     = errors.New("verification failed")
)
