package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacknode/vault-server/internal/model"
)

func TestChallenge_IssueAndConsume(t *testing.T) {
	mgr := NewChallenge("test-secret")
	userID := uuid.New()

	tokenString, err := mgr.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	got, err := mgr.Consume(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestChallenge_Consume_WrongKey(t *testing.T) {
	tokenString, err := NewChallenge("first-secret").Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewChallenge("second-secret").Consume(tokenString)
	assert.ErrorIs(t, err, model.ErrInvalidChallenge)
}

func TestChallenge_Consume_Expired(t *testing.T) {
	now := time.Now().Add(-model.ChallengeDuration - time.Minute)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(model.ChallengeDuration)),
		},
		UserID: uuid.New(),
		Stage:  stagePre2FA,
	})
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewChallenge("test-secret").Consume(tokenString)
	assert.ErrorIs(t, err, model.ErrInvalidChallenge)
}

func TestChallenge_Consume_WrongStage(t *testing.T) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(model.ChallengeDuration)),
		},
		UserID: uuid.New(),
		Stage:  "session",
	})
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewChallenge("test-secret").Consume(tokenString)
	assert.ErrorIs(t, err, model.ErrInvalidChallenge)
}

func TestChallenge_Consume_WrongSigningMethod(t *testing.T) {
	// alg=none tokens must never be accepted.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		UserID: uuid.New(),
		Stage:  stagePre2FA,
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewChallenge("test-secret").Consume(tokenString)
	assert.ErrorIs(t, err, model.ErrInvalidChallenge)
}

func TestChallenge_Consume_Malformed(t *testing.T) {
	mgr := NewChallenge("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mgr.Consume(tt.token)
			assert.ErrorIs(t, err, model.ErrInvalidChallenge)
		})
	}
}

func TestChallenge_Consume_MissingUserID(t *testing.T) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(model.ChallengeDuration)),
		},
		Stage: stagePre2FA,
	})
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewChallenge("test-secret").Consume(tokenString)
	assert.ErrorIs(t, err, model.ErrInvalidChallenge)
}
