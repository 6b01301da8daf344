// Package session holds per-client state keyed by an opaque token that is
// delivered to the browser as an http-only cookie.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/menden/shop-api/internal/domain"
)

// ErrSessionNotFound is returned when no live session exists for a token.
var ErrSessionNotFound = errors.New("session not found")

// Session is the state carried across requests from one client: a visit
// counter and the shopping cart. The cart lives only here, never in the
// document store.
type Session struct {
	Token     string      `json:"token"`
	Visits    int         `json:"visits"`
	Cart      domain.Cart `json:"cart"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// New creates an empty session with a fresh token, expiring after maxAge.
func New(maxAge time.Duration) *Session {
	return &Session{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(maxAge),
	}
}

// Expired reports whether the session is past its deadline.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store persists sessions. Save re-arms the expiry deadline, so lifetime
// is sliding: a session dies maxAge after its last write.
type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, token string) error
	Close() error
}
