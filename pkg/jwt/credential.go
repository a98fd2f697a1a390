package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT indicates the credential is not a JWT at all
var ErrNotJWT = errors.New("credential is not a JWT")

// ExpiresAt extracts the expiry claim from a JWT credential without
// verifying the signature. Platform access tokens are opaque to us; the
// only thing we ever read locally is whether they have already expired.
func ExpiresAt(token string) (*time.Time, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrNotJWT
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, ErrNotJWT
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, nil // no expiry claim
	}
	t := exp.Time
	return &t, nil
}

// IsExpired reports whether a JWT credential has passed its expiry.
// Non-JWT credentials and JWTs without an exp claim are never expired
// from our point of view; the platform is the authority.
func IsExpired(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil || exp == nil {
		return false
	}
	return now.After(*exp)
}
