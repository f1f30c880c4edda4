package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blacknode/vault-server/internal/logger"
	"github.com/blacknode/vault-server/internal/model"
)

// sessionTokenBytes gives 256 bits of entropy per token.
const sessionTokenBytes = 32

// Session issues, resolves and revokes bearer session tokens. Only the
// sha256 of a token is persisted; the raw value exists client-side only. The
// token itself supplies the entropy, so the hash needs no keyed component.
type Session struct {
	sessionStore model.SessionStore
	userStore    model.UserStore
	logger       *logger.Logger
}

// NewSession creates a new session service.
func NewSession(sessionStore model.SessionStore, userStore model.UserStore, logger *logger.Logger) *Session {
	return &Session{
		sessionStore: sessionStore,
		userStore:    userStore,
		logger:       logger,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Create mints a new session for the user and returns the raw token. This is
// the only place the raw value is ever observable server-side.
func (s *Session) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	now := time.Now()
	session := model.Session{
		ID:         uuid.New(),
		UserID:     userID,
		TokenHash:  hashToken(token),
		CreatedAt:  now,
		ExpiresAt:  now.Add(model.SessionDuration),
		LastSeenAt: now,
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Debug("Session service: session created",
		"user_id", userID,
		"session_id", session.ID)

	return token, nil
}

// Resolve maps a presented token to its owner. An expired session is deleted
// on the spot and treated the same as a missing one; a valid resolution
// updates the last-seen time.
func (s *Session) Resolve(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, model.ErrUnauthorized
	}

	session, err := s.sessionStore.GetByTokenHash(ctx, hashToken(token))
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUnauthorized
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get session by token hash: %w", err)
	}

	now := time.Now()
	if session.Expired(now) {
		if err := s.sessionStore.Delete(ctx, session.ID); err != nil {
			s.logger.Error("Session service: failed to delete expired session",
				"session_id", session.ID,
				"error", err.Error())
		}
		return model.User{}, model.ErrUnauthorized
	}

	if err := s.sessionStore.Touch(ctx, session.ID, now); err != nil {
		return model.User{}, fmt.Errorf("failed to touch session: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, session.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUnauthorized
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Invalidate revokes the session for a token. Revoking a token with no
// session is not an error.
func (s *Session) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionStore.DeleteByTokenHash(ctx, hashToken(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry. Resolve already expires
// lazily; this is storage hygiene for callers that want a periodic sweep.
func (s *Session) DeleteExpired(ctx context.Context) (int64, error) {
	deleted, err := s.sessionStore.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("Session service: expired sessions removed", "count", deleted)
	}
	return deleted, nil
}
