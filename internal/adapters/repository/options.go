package repository

import "github.com/okian/activities/internal/domain/activity"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCatalog replaces the seed catalog. The store keeps its own copy.
func WithCatalog(c activity.Catalog) Option {
	return func(s *MemoryStore) {
		if c != nil {
			s.seed = c
		}
	}
}

// WithCapacityEnforcement makes Signup reject activities at max_participants.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *MemoryStore) {
		s.enforceCapacity = enabled
	}
}
