package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_SessionRoundTrip(t *testing.T) {
	manager := NewJWT("secret")

	tokenString, err := manager.GenerateSessionToken("user_a")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	subject, err := manager.ParseSessionToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user_a", subject)
}

func TestJWT_ParseSessionToken(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		tokenString, err := NewJWT("secret").GenerateSessionToken("user_a")
		require.NoError(t, err)

		_, err = NewJWT("other-secret").ParseSessionToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := NewJWT("secret").ParseSessionToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		now := time.Now().Add(-48 * time.Hour)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_a",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			TokenType: typeSession,
		})
		tokenString, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = NewJWT("secret").ParseSessionToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("wrong token type", func(t *testing.T) {
		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_a",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			TokenType: "refresh",
		})
		tokenString, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = NewJWT("secret").ParseSessionToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			TokenType: typeSession,
		})
		tokenString, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = NewJWT("secret").ParseSessionToken(tokenString)
		assert.Error(t, err)
	})
}
