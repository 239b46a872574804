// Package session keeps live decks for the HTTP server.
//
// A [Session] owns one [deck.Deck] together with the lock that serialises
// every call into it; the engine itself is single threaded. Sessions expire
// after a period of inactivity and are swept by [Store.Cleanup].
//
// # Usage
//
//	store := session.NewMemoryStore(256, 30*time.Minute)
//	sess, err := store.Create(ctx, deck.New(cfg))
//	if err != nil {
//	    return err
//	}
//
//	sess.Do(func(d *deck.Deck) {
//	    d.TouchDown(900, sess.Clock())
//	})
//
// Session ids are random UUIDs.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cardstack/pkg/deck"
)

// Session is a live deck.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	deck     *deck.Deck
	lastUsed time.Time
	now      func() time.Time
}

// Do runs fn with exclusive access to the deck.
func (s *Session) Do(fn func(d *deck.Deck)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	fn(s.deck)
}

// Clock returns the deck time for the current instant: the wall time since
// the session was created.
func (s *Session) Clock() time.Duration {
	return s.now().Sub(s.CreatedAt)
}

// LastUsed returns when the deck was last accessed through [Session.Do].
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// IsExpired reports whether the session has been idle for longer than ttl.
// A ttl of zero never expires.
func (s *Session) IsExpired(ttl time.Duration) bool {
	return ttl > 0 && s.now().Sub(s.LastUsed()) > ttl
}

// Store is the interface for session storage backends.
type Store interface {
	// Create registers a new session for d.
	// Returns LIMIT_EXCEEDED when the store is full.
	Create(ctx context.Context, d *deck.Deck) (*Session, error)

	// Get retrieves a session by ID.
	// Returns NOT_FOUND if it does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Missing sessions are not an error.
	Delete(ctx context.Context, id string) error

	// Len returns the number of live sessions.
	Len() int

	// Cleanup removes expired sessions and returns how many were dropped.
	Cleanup(ctx context.Context) (int, error)
}

// Default limits.
const (
	// DefaultTTL is the default idle timeout.
	DefaultTTL = 30 * time.Minute

	// DefaultMaxSessions is the default store capacity.
	DefaultMaxSessions = 256
)

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}
