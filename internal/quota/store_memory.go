package quota

import (
	"context"
	"sync"
	"time"
)

const window = 24 * time.Hour

type memoryStore struct {
	mu    sync.Mutex
	data  map[string]Quota
	limit int
	now   func() time.Time
}

func newMemoryStore(dailyLimit int) *memoryStore {
	if dailyLimit <= 0 {
		dailyLimit = 100
	}
	return &memoryStore{
		data:  make(map[string]Quota),
		limit: dailyLimit,
		now:   time.Now,
	}
}

func (s *memoryStore) Get(ctx context.Context, clientID string) (Quota, error) {
	return s.ensure(ctx, clientID)
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, clientID string) (Quota, error) {
	return s.ensure(ctx, clientID)
}

func (s *memoryStore) ensure(ctx context.Context, clientID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.data[clientID]
	if !ok {
		q = Quota{Limit: s.limit, ResetsAt: now.Add(window)}
	}
	if now.After(q.ResetsAt) || now.Equal(q.ResetsAt) {
		q.Used = 0
		q.ResetsAt = now.Add(window)
	}
	s.data[clientID] = q
	return q, nil
}

func (s *memoryStore) Consume(ctx context.Context, clientID string, n int) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	if _, err := s.ensure(ctx, clientID); err != nil {
		return Quota{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.data[clientID]
	if n > 0 {
		if q.Used+n > q.Limit {
			return q, ErrLimitReached
		}
		q.Used += n
		s.data[clientID] = q
	}
	return q, nil
}

func (s *memoryStore) Reset(ctx context.Context, clientID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	q := Quota{Limit: s.limit, ResetsAt: now.Add(window)}
	s.data[clientID] = q
	return q, nil
}
