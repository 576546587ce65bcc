package service

import (
	"context"
	"sync"
	"time"
)

type rateLimitWindow struct {
	hits    int
	resetAt time.Time
}

// MemoryRateLimitStore holds counters in process memory.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*rateLimitWindow
	now     func() time.Time
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		windows: make(map[string]*rateLimitWindow),
		now:     time.Now,
	}
}

func (s *MemoryRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, exists := s.windows[key]
	if !exists || !now.Before(entry.resetAt) {
		entry = &rateLimitWindow{resetAt: now.Add(window)}
		s.windows[key] = entry
	}

	entry.hits++
	return entry.hits, entry.resetAt, nil
}

func (s *MemoryRateLimitStore) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.windows = make(map[string]*rateLimitWindow)
	return nil
}

// DeleteExpired forgets windows that have already ended.
func (s *MemoryRateLimitStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var deleted int64
	for key, entry := range s.windows {
		if !now.Before(entry.resetAt) {
			delete(s.windows, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
