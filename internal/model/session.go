package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionDuration is the absolute lifetime of a session from creation. There
// is no sliding renewal; expiry is measured from CreatedAt.
const SessionDuration = 7 * 24 * time.Hour

// SessionStore persists bearer sessions. Lookups are by exact token hash
// match; the raw token is never stored.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (Session, error)
	Touch(ctx context.Context, id uuid.UUID, lastSeenAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Session is the server-side half of a bearer session. TokenHash is an
// unkeyed one-way hash of the raw token held by the client.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastSeenAt time.Time
}

// Expired reports whether the session is past its absolute expiry at now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
