package session

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 1 * time.Minute

// MemoryStore implements Store with in-memory storage. A background
// janitor purges expired sessions so abandoned carts do not pile up.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	maxAge   time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

// NewMemoryStore creates an in-memory session store whose sessions expire
// maxAge after their last write.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions:    make(map[string]Session),
		maxAge:      maxAge,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) purgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// Get returns a copy of the session for token. Expired sessions are
// treated as absent even if the janitor has not collected them yet.
func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}

	cp := sess
	cp.Cart = append(cp.Cart[:0:0], sess.Cart...)
	return &cp, nil
}

// Save stores a copy of the session and slides its expiry forward.
func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.ExpiresAt = time.Now().Add(s.maxAge)
	cp := *sess
	cp.Cart = append(cp.Cart[:0:0], sess.Cart...)
	s.sessions[sess.Token] = cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Close stops the janitor and waits for it to finish.
func (s *MemoryStore) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
