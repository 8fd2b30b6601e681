package session

import (
	"sync"
	"time"

	"github.com/sikacredit/ussd-api/internal/domain"
)

type entry struct {
	stack     []domain.DialogState
	expiresAt time.Time
}

type tokenLock struct {
	mu   sync.Mutex
	refs int
}

// Store maps a session token to its dialog stack with a sliding TTL, and
// hands out per-token critical sections so at most one transition runs
// against a token at a time. Entries live only in this process; nothing
// survives a restart.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	locks    map[string]*tokenLock
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store with the given sliding TTL and starts the
// background reaper for entries that are never read again.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		locks:    make(map[string]*tokenLock),
		ttl:      ttl,
		now:      time.Now,
	}
	go s.reap()
	return s
}

// Acquire blocks until the caller holds the token's critical section and
// returns the release function. Different tokens proceed in parallel.
func (s *Store) Acquire(token string) func() {
	s.mu.Lock()
	l, ok := s.locks[token]
	if !ok {
		l = &tokenLock{}
		s.locks[token] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, token)
		}
		s.mu.Unlock()
	}
}

// Get returns a copy of the token's dialog stack, or false when the token was
// never created or has expired. Expired entries are removed on read.
func (s *Store) Get(token string) ([]domain.DialogState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, token)
		return nil, false
	}
	stack := make([]domain.DialogState, len(e.stack))
	copy(stack, e.stack)
	return stack, true
}

// Put inserts or replaces the token's stack and resets the expiry window to
// one TTL from now.
func (s *Store) Put(token string, stack []domain.DialogState) {
	cp := make([]domain.DialogState, len(stack))
	copy(cp, stack)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &entry{stack: cp, expiresAt: s.now().Add(s.ttl)}
}

// Delete removes the token immediately. Used on flow completion,
// abandonment, and error.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len returns the number of live (non-expired) sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.sessions {
		if !s.now().After(e.expiresAt) {
			n++
		}
	}
	return n
}

// reap removes expired entries every minute so abandoned sessions do not
// accumulate between reads.
func (s *Store) reap() {
	for {
		time.Sleep(time.Minute)
		s.mu.Lock()
		now := s.now()
		for token, e := range s.sessions {
			if now.After(e.expiresAt) {
				delete(s.sessions, token)
			}
		}
		s.mu.Unlock()
	}
}
