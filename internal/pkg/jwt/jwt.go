// Package jwt mints and verifies the stateless session tokens handed out
// after a successful OTP login or registration.
//
// A token is bound to the user's subject id and phone number. It is not
// stored anywhere; expiry is the only way it stops being valid.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort is returned when the HS512 key is under 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned for a well signed token past its expiry.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken covers bad signatures, malformed tokens and foreign
	// issuers or audiences.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT mints and verifies session tokens.
type JWT interface {
	Generate(subjectID int64, phone string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config holds the signing setup. Secret is loaded once at startup.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	UUID      generator
}

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
	SubjectID   int64  `json:"sid,string"`
	PhoneNumber string `json:"phone"`
}

// GetAuth returns the claims stored by the authentication middleware, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

// SetAuth stores clm in ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
