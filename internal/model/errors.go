package model

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized means the session token is missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidChallenge means the pre-2FA challenge token is missing,
	// malformed, expired or carries the wrong stage.
	ErrInvalidChallenge = errors.New("invalid two-factor challenge")
	// ErrTwoFactorNotEnabled means the user has no committed two-factor secret.
	ErrTwoFactorNotEnabled = errors.New("two-factor authentication not enabled")
	// ErrNoEnrollmentInProgress means there is no pending two-factor secret to confirm.
	ErrNoEnrollmentInProgress = errors.New("no two-factor enrollment in progress")
	// ErrInvalidCode means the submitted one-time code did not verify.
	ErrInvalidCode = errors.New("invalid one-time code")
	// ErrNotFound covers both absent resources and resources owned by another
	// user; the two cases must stay indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a uniqueness violation (duplicate email, duplicate folder
	// name in the same location).
	ErrConflict = errors.New("already exists")
	// ErrFileTooLarge means the declared upload size exceeds the allowed cap.
	ErrFileTooLarge = errors.New("file too large")
)
