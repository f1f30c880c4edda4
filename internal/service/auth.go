package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blacknode/vault-server/internal/logger"
	"github.com/blacknode/vault-server/internal/model"
	"github.com/blacknode/vault-server/internal/password"
	"github.com/blacknode/vault-server/internal/totp"
)

// LoginResult is the outcome of a password check. Exactly one of
// SessionToken and ChallengeToken is set: the former when the user is fully
// authenticated, the latter when a second factor is still pending.
type LoginResult struct {
	Requires2FA    bool
	SessionToken   string
	ChallengeToken string
}

// EnrollmentResult carries the material a user needs to add the vault to an
// authenticator app.
type EnrollmentResult struct {
	Secret          string
	ProvisioningURI string
}

// Auth orchestrates the authentication state machine: password verification,
// two-factor enrollment and challenge, session issuance and logout.
type Auth struct {
	userStore  model.UserStore
	sessions   *Session
	challenges model.ChallengeManager
	issuer     string
	logger     *logger.Logger
}

// NewAuth creates a new authentication service.
func NewAuth(
	userStore model.UserStore,
	sessions *Session,
	challenges model.ChallengeManager,
	issuer string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:  userStore,
		sessions:   sessions,
		challenges: challenges,
		issuer:     issuer,
		logger:     logger,
	}
}

// NormalizeEmail trims and lowercases an email address. All lookups and
// stored values go through this, so "A@x.com" and "a@x.com" are one account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password. A duplicate email,
// whether seen up front or raced into the unique constraint, is ErrConflict.
func (a *Auth) Register(ctx context.Context, email, plain string) (model.User, error) {
	email = NormalizeEmail(email)

	existing, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists", "email", email)
		return model.User{}, model.ErrConflict
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrConflict) {
		return model.User{}, model.ErrConflict
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered", "email", email)

	return user, nil
}

// Login verifies the password and either establishes a session (2FA off) or
// issues a pre-2FA challenge (2FA on). Unknown email and wrong password both
// come back as ErrInvalidCredentials with nothing to tell them apart.
func (a *Auth) Login(ctx context.Context, email, plain string) (LoginResult, error) {
	email = NormalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !password.Verify(plain, user.PasswordHash) {
		return LoginResult{}, model.ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		challenge, err := a.challenges.Issue(user.ID)
		if err != nil {
			return LoginResult{}, fmt.Errorf("failed to issue challenge: %w", err)
		}

		a.logger.Info("Auth service: password verified, second factor pending",
			"user_id", user.ID)

		return LoginResult{Requires2FA: true, ChallengeToken: challenge}, nil
	}

	token, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("Auth service: login completed", "user_id", user.ID)

	return LoginResult{SessionToken: token}, nil
}

// BeginTwoFactorEnrollment generates a fresh secret into the user's pending
// slot, overwriting any abandoned enrollment, and returns the secret with a
// provisioning URI. Two-factor stays off until the enrollment is confirmed.
func (a *Auth) BeginTwoFactorEnrollment(ctx context.Context, userID uuid.UUID) (EnrollmentResult, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return EnrollmentResult{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	secret, err := totp.GenerateSecret()
	if err != nil {
		return EnrollmentResult{}, fmt.Errorf("failed to generate totp secret: %w", err)
	}

	user.TwoFactorPendingSecret = &secret
	if _, err := a.userStore.Update(ctx, user); err != nil {
		return EnrollmentResult{}, fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: two-factor enrollment started", "user_id", user.ID)

	return EnrollmentResult{
		Secret:          secret,
		ProvisioningURI: totp.ProvisioningURI(secret, a.issuer, user.Email),
	}, nil
}

// ConfirmTwoFactorEnrollment checks a code against the pending secret and,
// on success, commits it: enabled flips on, the pending secret moves into
// the committed slot and the pending slot clears, all in one update. A wrong
// code leaves the enrollment pending and retryable.
func (a *Auth) ConfirmTwoFactorEnrollment(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if user.TwoFactorPendingSecret == nil {
		return model.ErrNoEnrollmentInProgress
	}

	if !totp.VerifyCode(code, *user.TwoFactorPendingSecret) {
		return model.ErrInvalidCode
	}

	secret := *user.TwoFactorPendingSecret
	user.TwoFactorEnabled = true
	user.TwoFactorSecret = &secret
	user.TwoFactorPendingSecret = nil

	if _, err := a.userStore.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: two-factor enabled", "user_id", user.ID)

	return nil
}

// VerifyTwoFactor completes a pending login: consume the challenge, check
// the code against the committed secret and establish a session. A wrong
// code is ErrInvalidCode and does not burn the challenge; it stays usable
// until its own five-minute expiry.
func (a *Auth) VerifyTwoFactor(ctx context.Context, challengeToken, code string) (string, error) {
	userID, err := a.challenges.Consume(challengeToken)
	if err != nil {
		return "", model.ErrInvalidChallenge
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrTwoFactorNotEnabled
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by id: %w", err)
	}

	// 2FA state may have changed between challenge issuance and now.
	if !user.TwoFactorEnabled || user.TwoFactorSecret == nil {
		return "", model.ErrTwoFactorNotEnabled
	}

	if !totp.VerifyCode(code, *user.TwoFactorSecret) {
		return "", model.ErrInvalidCode
	}

	token, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("Auth service: two-factor login completed", "user_id", user.ID)

	return token, nil
}

// Logout revokes the presented session token. Logging out twice, or with no
// active session, both succeed silently.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.sessions.Invalidate(ctx, token); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}
