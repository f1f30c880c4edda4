package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appctx "github.com/blacknode/vault-server/internal/api/http/context"
	"github.com/blacknode/vault-server/internal/api/http/cookie"
	"github.com/blacknode/vault-server/internal/logger"
	"github.com/blacknode/vault-server/internal/model"
	"github.com/blacknode/vault-server/internal/service"
)

var validate = validator.New()

// AuthService defines registration, login and two-factor operations.
type AuthService interface {
	Register(ctx context.Context, email, password string) (model.User, error)
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	BeginTwoFactorEnrollment(ctx context.Context, userID uuid.UUID) (service.EnrollmentResult, error)
	ConfirmTwoFactorEnrollment(ctx context.Context, userID uuid.UUID, code string) error
	VerifyTwoFactor(ctx context.Context, challengeToken, code string) (string, error)
	Logout(ctx context.Context, token string) error
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	service        AuthService
	cookies        *cookie.Writer
	contextManager *appctx.Manager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(service AuthService, cookies *cookie.Writer, contextManager *appctx.Manager, logger *logger.Logger) *Auth {
	return &Auth{
		service:        service,
		cookies:        cookies,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=10,max=128"`
}

type registerResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Register creates a new account.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: registration failed", "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{ID: user.ID, Email: user.Email})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Requires2FA bool `json:"requires2FA"`
}

// Login verifies a password and either opens a session or, when the account
// has a second factor, hands out a short-lived challenge cookie instead. The
// opposite cookie is always cleared so stale state cannot linger.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Requires2FA {
		h.cookies.SetChallenge(w, result.ChallengeToken)
		h.cookies.ClearSession(w)
	} else {
		h.cookies.SetSession(w, result.SessionToken)
		h.cookies.ClearChallenge(w)
	}

	writeJSON(w, http.StatusOK, loginResponse{Requires2FA: result.Requires2FA})
}

type setupTwoFactorResponse struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauthUrl"`
}

// SetupTwoFactor starts enrollment for the authenticated user.
func (h *Auth) SetupTwoFactor(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	result, err := h.service.BeginTwoFactorEnrollment(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Auth handler: enrollment start failed", "user_id", user.ID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, setupTwoFactorResponse{
		Secret:     result.Secret,
		OtpauthURL: result.ProvisioningURI,
	})
}

type codeRequest struct {
	Code string `json:"code" validate:"required"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// EnableTwoFactor commits a pending enrollment when the code checks out.
func (h *Auth) EnableTwoFactor(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var req codeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ConfirmTwoFactorEnrollment(r.Context(), user.ID, req.Code); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "enabled"})
}

// VerifyTwoFactor trades a valid challenge cookie plus a TOTP code for a
// session. A dead challenge clears its cookie; a wrong code keeps it so the
// user can retry within the challenge window.
func (h *Auth) VerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	challenge, err := r.Cookie(cookie.ChallengeName)
	if err != nil {
		h.cookies.ClearChallenge(w)
		writeError(w, model.ErrInvalidChallenge)
		return
	}

	token, err := h.service.VerifyTwoFactor(r.Context(), challenge.Value, req.Code)
	if err != nil {
		// A wrong code keeps the challenge cookie so the user can retry
		// within the window; a dead or foreign challenge does not.
		if !errors.Is(err, model.ErrInvalidCode) {
			h.cookies.ClearChallenge(w)
		}
		writeError(w, err)
		return
	}

	h.cookies.SetSession(w, token)
	h.cookies.ClearChallenge(w)
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Logout drops the server-side session, if any, and clears both cookies.
// Always succeeds.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookie.SessionName); err == nil {
		if err := h.service.Logout(r.Context(), c.Value); err != nil {
			h.logger.Error("Auth handler: logout failed", "error", err.Error())
		}
	}

	h.cookies.ClearSession(w)
	h.cookies.ClearChallenge(w)
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation,
// answering 400 itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed"})
		return false
	}
	return true
}
