package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/blacknode/vault-server/internal/model"
)

// Claims represents challenge token claims with stage marker and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Stage  string    `json:"stage"`
}

// Challenge implements ChallengeManager backed by symmetric HMAC. Tokens are
// self-contained, so a restart between password verification and code entry
// does not strand the login.
type Challenge struct {
	secretKey string
}

// NewChallenge creates a new challenge manager with the provided secret key.
func NewChallenge(secretKey string) model.ChallengeManager {
	return &Challenge{secretKey: secretKey}
}

const stagePre2FA = "pre2fa"

// Issue creates a signed challenge token for the user, expiring after
// model.ChallengeDuration.
func (c *Challenge) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(model.ChallengeDuration)),
		},
		UserID: userID,
		Stage:  stagePre2FA,
	})

	tokenString, err := token.SignedString([]byte(c.secretKey))
	if err != nil {
		return "", model.ErrInvalidChallenge
	}

	return tokenString, nil
}

// Consume validates signature, expiry and stage marker and extracts the user
// ID. A token failing any check is rejected whole; there is no partial trust.
func (c *Challenge) Consume(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidChallenge
		}
		return []byte(c.secretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, model.ErrInvalidChallenge
	}
	if claims.Stage != stagePre2FA {
		return uuid.Nil, model.ErrInvalidChallenge
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, model.ErrInvalidChallenge
	}
	return claims.UserID, nil
}
