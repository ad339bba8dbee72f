package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/activities/internal/domain/activity"
	"github.com/okian/activities/pkg/metrics"
)

// MemoryStore is a Store backed by a map guarded by a RWMutex.
//
// Reads take the read lock and return copies. Signup and Unregister hold the
// write lock across the membership check, the mutation and the participant
// gauge update, so a participant can never be added twice to one activity
// and the gauge follows the order of mutations.
type MemoryStore struct {
	mu         sync.RWMutex
	activities map[string]*activity.Activity

	seed            activity.Catalog
	enforceCapacity bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store seeded with the default catalog unless
// WithCatalog says otherwise. The seed must pass Catalog.Validate.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{seed: activity.DefaultCatalog()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.seed.Validate(); err != nil {
		return nil, err
	}

	s.activities = make(map[string]*activity.Activity, len(s.seed))
	for name, a := range s.seed {
		rec := a.Clone()
		s.activities[name] = &rec
	}
	s.seed = nil
	return s, nil
}

// List returns a deep copy of every activity.
func (s *MemoryStore) List(_ context.Context) (activity.Catalog, error) {
	defer observe("list", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(activity.Catalog, len(s.activities))
	for name, a := range s.activities {
		out[name] = a.Clone()
	}
	return out, nil
}

// Get returns a copy of one activity.
func (s *MemoryStore) Get(_ context.Context, name string) (activity.Activity, error) {
	defer observe("get", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		return activity.Activity{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return a.Clone(), nil
}

// Signup appends email to the named activity.
func (s *MemoryStore) Signup(_ context.Context, name, email string) (activity.Activity, error) {
	defer observe("signup", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return activity.Activity{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if a.HasParticipant(email) {
		return a.Clone(), fmt.Errorf("%w: %s in %q", ErrAlreadySignedUp, email, name)
	}
	if s.enforceCapacity && a.IsFull() {
		return a.Clone(), fmt.Errorf("%w: %q has %d/%d participants", ErrActivityFull, name, len(a.Participants), a.MaxParticipants)
	}

	a.Participants = append(a.Participants, email)
	metrics.UpdateActivityParticipants(name, len(a.Participants))
	return a.Clone(), nil
}

// Unregister removes email from the named activity, keeping the order of the
// remaining participants.
func (s *MemoryStore) Unregister(_ context.Context, name, email string) (activity.Activity, error) {
	defer observe("unregister", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return activity.Activity{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return a.Clone(), fmt.Errorf("%w: %s in %q", ErrNotSignedUp, email, name)
	}

	a.Participants = slices.Delete(a.Participants, i, i+1)
	metrics.UpdateActivityParticipants(name, len(a.Participants))
	return a.Clone(), nil
}

func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Nanoseconds())/1e6)
}
