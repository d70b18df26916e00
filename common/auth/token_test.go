package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTokenSource_MintsAdminAccessToken(t *testing.T) {
	src := NewServiceTokenSource("test-secret", "variant-editor-service", time.Minute*10)

	token, err := src.Token(context.Background())
	require.NoError(t, err)

	claims, err := ParseAndValidateToken([]byte("test-secret"), token, "access")
	require.NoError(t, err)
	assert.Equal(t, "variant-editor-service", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestServiceTokenSource_ReusesUntilNearExpiry(t *testing.T) {
	now := time.Now()
	src := NewServiceTokenSource("test-secret", "svc", 5*time.Minute)
	src.now = func() time.Time { return now }

	first, err := src.Token(context.Background())
	require.NoError(t, err)
	second, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	now = now.Add(4*time.Minute + 30*time.Second)
	third, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestServiceTokenSource_RequiresSecret(t *testing.T) {
	_, err := NewServiceTokenSource("", "svc", 0).Token(context.Background())
	assert.Error(t, err)
}

func TestParseAndValidateToken_Rejects(t *testing.T) {
	secret := []byte("test-secret")
	sign := func(claims jwt.MapClaims, key []byte) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	future := time.Now().Add(time.Hour).Unix()

	_, err := ParseAndValidateToken(secret, sign(jwt.MapClaims{"sub": "u", "typ": "refresh", "exp": future}, secret), "access")
	assert.Error(t, err, "wrong token type")

	_, err = ParseAndValidateToken(secret, sign(jwt.MapClaims{"sub": "u", "typ": "access", "exp": future}, []byte("other")), "access")
	assert.Error(t, err, "wrong key")

	_, err = ParseAndValidateToken(secret, sign(jwt.MapClaims{"sub": "u", "typ": "access", "exp": time.Now().Add(-time.Minute).Unix()}, secret), "access")
	assert.Error(t, err, "expired")

	_, err = ParseAndValidateToken(nil, "whatever", "")
	assert.Error(t, err)
}
