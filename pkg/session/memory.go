package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/cardstack/pkg/deck"
	errs "github.com/matzehuels/cardstack/pkg/errors"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store holding at most max sessions (unbounded
// when max <= 0) that expire after ttl of inactivity.
func NewMemoryStore(max int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		max:      max,
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Create(ctx context.Context, d *deck.Deck) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		s.sweepLocked()
		if len(s.sessions) >= s.max {
			return nil, errs.New(errs.ErrCodeLimitExceeded, "session limit of %d reached", s.max)
		}
	}

	now := s.now()
	sess := &Session{
		ID:        GenerateID(),
		CreatedAt: now,
		deck:      d,
		lastUsed:  now,
		now:       s.now,
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "deck %q not found", id)
	}
	if sess.IsExpired(s.ttl) {
		s.Delete(ctx, id)
		return nil, errs.New(errs.ErrCodeNotFound, "deck %q expired", id)
	}
	return sess, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(), nil
}

func (s *MemoryStore) sweepLocked() int {
	n := 0
	for id, sess := range s.sessions {
		if sess.IsExpired(s.ttl) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
