package model

import (
	"time"

	"github.com/google/uuid"
)

// ChallengeDuration is the absolute lifetime of a pre-2FA challenge token.
const ChallengeDuration = 5 * time.Minute

// ChallengeManager issues and consumes stateless signed tokens representing
// "password verified, second factor pending". A token is self-contained, so
// no server-side record exists; single use is enforced by the caller
// discarding the client-side credential and by the one-time code itself.
type ChallengeManager interface {
	Issue(userID uuid.UUID) (string, error)
	Consume(token string) (uuid.UUID, error)
}
