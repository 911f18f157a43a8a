package quota

import "context"

type store interface {
	Get(ctx context.Context, clientID string) (Quota, error)
	EnsurePeriod(ctx context.Context, clientID string) (Quota, error)
	Consume(ctx context.Context, clientID string, n int) (Quota, error)
	Reset(ctx context.Context, clientID string) (Quota, error)
}

// Service manages per-client daily quotas via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store and the given daily limit.
func NewService(dailyLimit int) *Service {
	return &Service{store: newMemoryStore(dailyLimit)}
}

// Get returns the current quota for a client, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, clientID string) (Quota, error) {
	return s.store.Get(ctx, clientID)
}

// CanConsume reports whether the client can consume n units.
func (s *Service) CanConsume(ctx context.Context, clientID string, n int) (bool, Quota, error) {
	q, err := s.store.EnsurePeriod(ctx, clientID)
	if err != nil {
		return false, Quota{}, err
	}
	if n <= 0 {
		return true, q, nil
	}
	if q.Used+n > q.Limit {
		return false, q, nil
	}
	return true, q, nil
}

// Consume increments usage by n if within limit.
func (s *Service) Consume(ctx context.Context, clientID string, n int) (Quota, error) {
	return s.store.Consume(ctx, clientID, n)
}

// Reset sets usage to zero and restarts the window.
func (s *Service) Reset(ctx context.Context, clientID string) (Quota, error) {
	return s.store.Reset(ctx, clientID)
}
