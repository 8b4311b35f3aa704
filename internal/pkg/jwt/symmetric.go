package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies tokens with HS512.
type Symmetric struct {
	cfg    Config
	parser *libJWT.Parser
}

// NewHS512 returns a Symmetric for cfg.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("jwt: ttl must be positive")
	}

	parser := libJWT.NewParser(
		libJWT.WithIssuer(cfg.Issuer),
		libJWT.WithAudience(cfg.Audiences...),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		// The library rejects now >= exp. Rounding now up to the second and
		// allowing one second of leeway makes the token valid through exp
		// itself and expired from the first instant after it.
		libJWT.WithLeeway(time.Second),
		libJWT.WithTimeFunc(func() time.Time { return ceilSecond(cfg.Clock.Now()) }),
	)

	return &Symmetric{cfg: cfg, parser: parser}, nil
}

func ceilSecond(t time.Time) time.Time {
	c := t.Truncate(time.Second)
	if c.Before(t) {
		c = c.Add(time.Second)
	}
	return c
}

// Generate mints a token for subjectID expiring TTL from now.
func (s *Symmetric) Generate(subjectID int64, phone string) (string, error) {
	now := s.cfg.Clock.Now()

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS512, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        s.cfg.UUID.Generate(),
				Subject:   strconv.FormatInt(subjectID, 10),
				Issuer:    s.cfg.Issuer,
				Audience:  s.cfg.Audiences,
				IssuedAt:  libJWT.NewNumericDate(now),
				NotBefore: libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(s.cfg.TTL)),
			},
			SubjectID:   subjectID,
			PhoneNumber: phone,
		}).
		SignedString(s.cfg.Secret)
}

// Verify checks the signature first and the time based claims after, so a
// token with a forged expiry is reported as invalid, never as expired.
func (s *Symmetric) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := s.parser.ParseWithClaims(tokenStr, &claims, func(*libJWT.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, libJWT.ErrTokenExpired) && !errors.Is(err, libJWT.ErrTokenSignatureInvalid):
		return Claims{}, ErrTokenExpired
	case err == nil:
		return Claims{}, ErrInvalidToken
	default:
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
}
