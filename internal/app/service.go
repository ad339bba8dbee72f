// Package service provides the activity registry service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	repository "github.com/okian/activities/internal/adapters/repository"
	"github.com/okian/activities/internal/domain/activity"
	"github.com/okian/activities/pkg/logger"
	"github.com/okian/activities/pkg/metrics"
)

// Operation names used in logs and metrics.
const (
	opSignup     = "signup"
	opUnregister = "unregister"
)

// Service owns the activity store and exposes the registry operations.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Store construction, used when no store is injected.
	catalog         activity.Catalog
	enforceCapacity bool

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a store. Catalog and capacity options are then ignored.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog seeds the default in-memory store with c instead of the
// built-in catalog.
func WithCatalog(c activity.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithCapacityEnforcement rejects signups into full activities.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceCapacity = enabled
	}
}

// New constructs a Service. Without WithStore it builds a MemoryStore, which
// fails if the catalog does not validate.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		storeOpts := []repository.Option{repository.WithCapacityEnforcement(s.enforceCapacity)}
		if s.catalog != nil {
			storeOpts = append(storeOpts, repository.WithCatalog(s.catalog))
		}
		store, err := repository.NewMemoryStore(storeOpts...)
		if err != nil {
			return nil, fmt.Errorf("new service: %w", err)
		}
		s.store = store
	}
	s.catalog = nil
	return s, nil
}

// Start publishes the initial registry gauges. It is idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	metrics.UpdateRegistry(participantCounts(list))

	s.started = true
	s.logger.Info(ctx, "activity service started",
		logger.Int("activities", len(list)),
		logger.Int("participants", list.Participants()),
		logger.Bool("enforceCapacity", s.enforceCapacity),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "activity service stopped")
}

// ListActivities returns every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) (activity.Catalog, error) {
	return s.store.List(ctx)
}

// Activity returns one activity by name.
func (s *Service) Activity(ctx context.Context, name string) (activity.Activity, error) {
	return s.store.Get(ctx, name)
}

// Signup registers email for the named activity and returns a confirmation
// message.
func (s *Service) Signup(ctx context.Context, name, email string) (string, error) {
	a, err := s.store.Signup(ctx, name, email)
	if err != nil {
		s.reject(ctx, opSignup, name, email, err)
		return "", err
	}

	metrics.RecordSignup()
	s.logger.Info(ctx, "participant signed up",
		logger.String("activity", name),
		logger.String("email", email),
		logger.Int("participants", len(a.Participants)),
	)
	return fmt.Sprintf("Signed up %s for %s", email, name), nil
}

// Unregister removes email from the named activity and returns a
// confirmation message.
func (s *Service) Unregister(ctx context.Context, name, email string) (string, error) {
	a, err := s.store.Unregister(ctx, name, email)
	if err != nil {
		s.reject(ctx, opUnregister, name, email, err)
		return "", err
	}

	metrics.RecordUnregistration()
	s.logger.Info(ctx, "participant unregistered",
		logger.String("activity", name),
		logger.String("email", email),
		logger.Int("participants", len(a.Participants)),
	)
	return fmt.Sprintf("Unregistered %s from %s", email, name), nil
}

func (s *Service) reject(ctx context.Context, op, name, email string, err error) {
	reason := Reason(err)
	metrics.RecordRejection(op, reason)

	log := s.logger.Error
	if activity.IsNotFound(err) || activity.IsConflict(err) {
		log = s.logger.Warn
	}
	log(ctx, op+" rejected",
		logger.String("activity", name),
		logger.String("email", email),
		logger.String("reason", reason),
		logger.Error(err),
	)
}

// Reason maps a registry error to a short snake_case label.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, activity.ErrActivityNotFound):
		return "activity_not_found"
	case errors.Is(err, activity.ErrAlreadySignedUp):
		return "already_signed_up"
	case errors.Is(err, activity.ErrNotSignedUp):
		return "not_signed_up"
	case errors.Is(err, activity.ErrActivityFull):
		return "activity_full"
	default:
		return "internal"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         started,
		"enforceCapacity": s.enforceCapacity,
	}

	list, err := s.store.List(context.Background())
	if err != nil {
		stats["error"] = err.Error()
		return stats
	}

	counts := participantCounts(list)
	stats["totalActivities"] = len(list)
	stats["totalParticipants"] = list.Participants()
	stats["participants"] = counts
	stats["spotsLeft"] = spotsLeft(list)

	metrics.UpdateRegistry(counts)
	return stats
}

// spotsLeft reports remaining capacity for activities that have a limit.
func spotsLeft(c activity.Catalog) map[string]int {
	out := make(map[string]int, len(c))
	for name, a := range c {
		if a.MaxParticipants > 0 {
			out[name] = a.SpotsLeft()
		}
	}
	return out
}

func participantCounts(c activity.Catalog) map[string]int {
	counts := make(map[string]int, len(c))
	for name, a := range c {
		counts[name] = len(a.Participants)
	}
	return counts
}
