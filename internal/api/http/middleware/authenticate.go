package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	appctx "github.com/blacknode/vault-server/internal/api/http/context"
	"github.com/blacknode/vault-server/internal/api/http/cookie"
	"github.com/blacknode/vault-server/internal/logger"
	"github.com/blacknode/vault-server/internal/model"
)

// SessionService resolves session tokens to users.
type SessionService interface {
	Resolve(ctx context.Context, token string) (model.User, error)
}

// Authenticate validates the session cookie and injects the user into the
// request context. Failures answer 401 and clear the cookie so the browser
// does not keep replaying a dead token.
type Authenticate struct {
	sessionService SessionService
	cookies        *cookie.Writer
	contextManager *appctx.Manager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessionService SessionService, cookies *cookie.Writer, contextManager *appctx.Manager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		sessionService: sessionService,
		cookies:        cookies,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handler wraps next with session-cookie authentication.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(cookie.SessionName); err == nil {
			token = c.Value
		}

		user, err := m.sessionService.Resolve(r.Context(), token)
		if err != nil {
			m.cookies.ClearSession(w)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": model.ErrUnauthorized.Error()})
			return
		}

		ctx := m.contextManager.SetUserToContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
