package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrEmptySecret is returned when an HMAC key is missing.
var ErrEmptySecret = errors.New("hash: hmac secret is empty")

// HMACSHA256 is a keyed, deterministic Hash. The same input always maps to
// the same hex digest, so digests can be matched with SQL equality.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 returns an HMACSHA256 keyed by secret.
func NewHMACSHA256(secret string) (*HMACSHA256, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &HMACSHA256{secret: []byte(secret)}, nil
}

// Hash returns the hex encoded HMAC-SHA256 of str.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	return s.sum(str), nil
}

// Verify reports whether hashed is the digest of str, in constant time.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	return hmac.Equal([]byte(hashed), s.sum(str))
}

func (s *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(str))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}
