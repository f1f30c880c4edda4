package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
}

// User represents a stored user with authentication material.
// TwoFactorEnabled implies a non-nil TwoFactorSecret; TwoFactorPendingSecret
// only exists while an enrollment is in progress and is cleared the moment the
// committed secret is set.
type User struct {
	ID                     uuid.UUID
	Email                  string
	PasswordHash           string
	TwoFactorEnabled       bool
	TwoFactorSecret        *string
	TwoFactorPendingSecret *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
