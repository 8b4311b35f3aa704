// Package otp generates numeric one-time codes from a cryptographically
// secure source.
package otp

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"strings"
)

// ErrInvalidLength is returned for lengths outside 4..10.
var ErrInvalidLength = errors.New("otp: length must be between 4 and 10")

// Generator returns a fresh numeric code.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates fixed length decimal codes. Each digit is drawn
// uniformly, so leading zeros are as likely as any other digit.
type Numeric struct {
	length int
	src    io.Reader
}

// NewNumeric returns a Numeric generator producing length digits.
func NewNumeric(length int) (*Numeric, error) {
	if length < 4 || length > 10 {
		return nil, ErrInvalidLength
	}
	return &Numeric{length: length, src: rand.Reader}, nil
}

// Length reports the number of digits per code.
func (n *Numeric) Length() int {
	return n.length
}

func (n *Numeric) Generate() (string, error) {
	ten := big.NewInt(10)

	var b strings.Builder
	b.Grow(n.length)

	for range n.length {
		d, err := rand.Int(n.src, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}

	return b.String(), nil
}
