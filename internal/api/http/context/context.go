// Package context carries the authenticated user through request contexts.
package context

import (
	"context"

	"github.com/blacknode/vault-server/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// Manager sets and retrieves the authenticated user on request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a child context carrying the user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the user set by the authentication middleware.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	return user, ok
}
