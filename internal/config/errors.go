package config

import "errors"

// Error kinds returned by Load and Validate. Every validation failure wraps
// ErrInvalidConfig; a bad seed_file additionally wraps ErrSeedFile so callers
// can tell it apart from other field errors.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	ErrSeedFile      = errors.New("seed file is not a readable file")
)
