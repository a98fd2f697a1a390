package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signedToken(t *testing.T, claims gojwt.MapClaims) string {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func TestExpiresAt_ReadsExpClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, gojwt.MapClaims{"exp": exp.Unix()})

	got, err := ExpiresAt(token)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.True(t, got.Equal(exp))
}

func TestExpiresAt_NoExpClaim(t *testing.T) {
	token := signedToken(t, gojwt.MapClaims{"sub": "user-1"})

	got, err := ExpiresAt(token)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpiresAt_NotAJWT(t *testing.T) {
	for _, token := range []string{"opaque-platform-token", "a.b", "a.b.c.d", ""} {
		_, err := ExpiresAt(token)
		assert.ErrorIs(t, err, ErrNotJWT, token)
	}
}

func TestExpiresAt_GarbageWithTwoDots(t *testing.T) {
	_, err := ExpiresAt("not.base64.payload")
	assert.ErrorIs(t, err, ErrNotJWT)
}

func TestIsExpired_PastExpiry(t *testing.T) {
	token := signedToken(t, gojwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	assert.True(t, IsExpired(token, time.Now()))
}

func TestIsExpired_FutureExpiry(t *testing.T) {
	token := signedToken(t, gojwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	assert.False(t, IsExpired(token, time.Now()))
}

func TestIsExpired_OpaqueTokenNeverExpires(t *testing.T) {
	assert.False(t, IsExpired("opaque-platform-token", time.Now()))
}

func TestIsExpired_NoExpClaimNeverExpires(t *testing.T) {
	token := signedToken(t, gojwt.MapClaims{"sub": "user-1"})
	assert.False(t, IsExpired(token, time.Now().Add(24*time.Hour)))
}
