// Package memory implements an in-memory token store. Contents are lost when
// the process exits.
package memory

import (
	"context"
	"sync"
	"time"

	"storefront/pkg/token"
)

// sweepEvery is the number of Put calls between full expiry sweeps.
const sweepEvery = 256

type entry struct {
	userID  string
	expires time.Time
}

// Store provides an in-memory implementation of token.Store.
type Store struct {
	mu     sync.Mutex
	tokens map[string]entry
	now    func() time.Time
	puts   int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{tokens: make(map[string]entry), now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Put stores the token.
func (s *Store) Put(ctx context.Context, tok, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{userID: userID}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.tokens[tok] = e
	s.puts++
	if s.puts%sweepEvery == 0 {
		s.sweep()
	}
	return nil
}

// sweep drops every expired entry. Callers must hold s.mu.
func (s *Store) sweep() {
	now := s.now()
	for tok, e := range s.tokens {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(s.tokens, tok)
		}
	}
}

// Get looks up a token. Expired entries are dropped on sight; Put also
// sweeps them periodically so tokens that are never presented again do not
// accumulate.
func (s *Store) Get(ctx context.Context, tok string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[tok]
	if !ok {
		return "", token.ErrNotFound
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.tokens, tok)
		return "", token.ErrNotFound
	}
	return e.userID, nil
}

// Delete removes a token.
func (s *Store) Delete(ctx context.Context, tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tok)
	return nil
}

// DeleteUser removes all tokens of a user.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok, e := range s.tokens {
		if e.userID == userID {
			delete(s.tokens, tok)
		}
	}
	return nil
}

// Len reports the number of live and not yet collected entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
