// Package session provides conversation.Store implementations: a per-process
// in-memory store for single-instance deployments and a Redis-backed store
// for distributed ones.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/domain/shared"
)

// DefaultSessionTTL is how long an idle session survives before the janitor
// removes it
const DefaultSessionTTL = 30 * time.Minute

// entry pairs a conversation with its own lock so that requests for the same
// session serialize while requests for different sessions proceed
// independently.
type entry struct {
	mu        sync.Mutex
	conv      *conversation.Conversation
	expiresAt time.Time
}

// InMemoryStore implements conversation.Store with a process-local map.
// Suitable for single-instance deployments and testing.
type InMemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryStore creates an in-memory store and starts its cleanup
// goroutine. A non-positive ttl falls back to DefaultSessionTTL.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	store := &InMemoryStore{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Update resolves or creates the session and runs fn under its lock. The
// global map lock is held only long enough to fetch the entry; fn runs under
// the entry's own lock so distinct sessions never contend.
func (s *InMemoryStore) Update(ctx context.Context, sessionID string, fn func(*conversation.Conversation) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := s.getOrCreate(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	// fn mutates a working copy; the entry only adopts it on success, so a
	// failed handler leaves the stored state untouched.
	working := e.conv.Clone()
	if err := fn(working); err != nil {
		return err
	}
	e.conv = working
	e.expiresAt = time.Now().Add(s.ttl)
	return nil
}

// Get returns a copy of the session's conversation
func (s *InMemoryStore) Get(ctx context.Context, sessionID string) (*conversation.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, shared.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if time.Now().After(e.expiresAt) {
		return nil, shared.ErrNotFound
	}
	return e.conv.Clone(), nil
}

// Remove deletes the session; removing an absent session is a no-op
func (s *InMemoryStore) Remove(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Size returns the number of live sessions (for testing/monitoring)
func (s *InMemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryStore) getOrCreate(sessionID string) *entry {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.sessions[sessionID]; ok {
		return e
	}
	e = &entry{
		conv:      conversation.New(sessionID),
		expiresAt: time.Now().Add(s.ttl),
	}
	s.sessions[sessionID] = e
	return e
}

// cleanupLoop periodically removes expired sessions
func (s *InMemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// Ensure InMemoryStore implements conversation.Store
var _ conversation.Store = (*InMemoryStore)(nil)
