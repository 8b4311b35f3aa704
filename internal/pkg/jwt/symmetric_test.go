package jwt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/clock"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newTestJWT(t *testing.T, c *clock.Manual) *Symmetric {
	t.Helper()
	s, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "growguard",
		Audiences: []string{"growguard-app"},
		TTL:       7 * 24 * time.Hour,
		Clock:     c,
		UUID:      fixedID("jti-1"),
	})
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}
	return s
}

func TestNewHS512_ShortKey(t *testing.T) {
	// Act
	_, err := NewHS512(Config{Secret: []byte("short"), TTL: time.Hour})

	// Assert
	if !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("error = %v, want %v", err, ErrSigningKeyTooShort)
	}
}

func TestSymmetric_RoundTrip(t *testing.T) {
	// Arrange
	c := clock.NewManual(time.Now())
	s := newTestJWT(t, c)

	// Act
	tok, err := s.Generate(42, "03001234567")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	claims, err := s.Verify(tok)

	// Assert
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.SubjectID != 42 || claims.PhoneNumber != "03001234567" || claims.Subject != "42" {
		t.Fatalf("claims = %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 7*24*time.Hour {
		t.Fatalf("lifetime = %v", got)
	}
}

func TestSymmetric_Expired(t *testing.T) {
	// Arrange
	c := clock.NewManual(time.Now())
	s := newTestJWT(t, c)
	tok, _ := s.Generate(42, "03001234567")

	// Act
	c.Advance(7*24*time.Hour + time.Minute)
	_, err := s.Verify(tok)

	// Assert
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("error = %v, want %v", err, ErrTokenExpired)
	}
}

func TestSymmetric_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	ttl := 7 * 24 * time.Hour

	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{name: "one second before exp", elapsed: ttl - time.Second},
		{name: "exactly at exp", elapsed: ttl},
		{name: "just after exp", elapsed: ttl + time.Nanosecond, wantErr: ErrTokenExpired},
		{name: "one second after exp", elapsed: ttl + time.Second, wantErr: ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			c := clock.NewManual(issued)
			s := newTestJWT(t, c)
			tok, err := s.Generate(42, "03001234567")
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			// Act
			c.Advance(tt.elapsed)
			_, err = s.Verify(tok)

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSymmetric_TamperedPayloadIsInvalid(t *testing.T) {
	// Arrange
	c := clock.NewManual(time.Now())
	s := newTestJWT(t, c)
	tok, _ := s.Generate(42, "03001234567")
	c.Advance(8 * 24 * time.Hour)

	parts := strings.Split(tok, ".")
	raw, _ := base64.RawURLEncoding.DecodeString(parts[1])
	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)
	payload["exp"] = c.Now().Add(time.Hour).Unix()
	forged, _ := json.Marshal(payload)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	// Act
	_, err := s.Verify(strings.Join(parts, "."))

	// Assert
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidToken)
	}
	if errors.Is(err, ErrTokenExpired) {
		t.Fatalf("tampered token reported as expired")
	}
}

func TestSymmetric_OtherKeyIsInvalid(t *testing.T) {
	// Arrange
	c := clock.NewManual(time.Now())
	s := newTestJWT(t, c)
	other, _ := NewHS512(Config{
		Secret:    []byte(strings.Repeat("x", 64)),
		Issuer:    "growguard",
		Audiences: []string{"growguard-app"},
		TTL:       time.Hour,
		Clock:     c,
		UUID:      fixedID("jti-2"),
	})
	tok, _ := other.Generate(1, "03001234567")

	// Act
	_, err := s.Verify(tok)

	// Assert
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestSymmetric_Garbage(t *testing.T) {
	// Arrange
	s := newTestJWT(t, clock.NewManual(time.Now()))

	// Act
	_, err := s.Verify("not-a-token")

	// Assert
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestAuthContext(t *testing.T) {
	// Arrange
	ctx := context.Background()

	// Assert
	if GetAuth(ctx) != nil {
		t.Fatalf("GetAuth(empty) != nil")
	}
	got := GetAuth(SetAuth(ctx, Claims{SubjectID: 7}))
	if got == nil || got.SubjectID != 7 {
		t.Fatalf("GetAuth() = %+v", got)
	}
}
