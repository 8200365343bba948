// Package session provides per-user planning sessions.
//
// A session owns one plan snapshot: the selected device plus the current
// fenestration layout. Sessions are transient working state with a TTL,
// not design persistence; nothing outlives its expiry.
//
// The Store interface supports different backends:
//   - memory: in-process storage for a single-instance server and tests
//   - redis: shared storage for multi-instance deployments
//
// Each session is an independent, non-shared instance. Two concurrent
// sessions never observe each other's registry, which is what makes the
// single-threaded core safe to serve to many users at once.
//
// # Usage
//
//	store := session.NewMemoryStore()
//
//	sess := session.New(plan, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    // SESSION_NOT_FOUND or SESSION_EXPIRED
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vesselworks/graftplan/pkg/graft"
)

// DefaultTTL is the default planning session duration.
const DefaultTTL = 24 * time.Hour

// Session stores one in-progress plan.
type Session struct {
	ID        string      `json:"id"`
	Plan      graft.State `json:"plan"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session holding a snapshot of the given plan.
func New(plan *graft.Plan, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Plan:      plan.State(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. Returns a SESSION_NOT_FOUND error
	// if the session doesn't exist and SESSION_EXPIRED if it does but
	// has passed its TTL.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session, replacing any previous state under its ID.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for backends
	// with native expiry).
	Cleanup(ctx context.Context) error
}
