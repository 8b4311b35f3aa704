// Package hash keeps short-lived secrets, such as OTP codes, out of storage
// in plaintext.
package hash

// Hash produces a digest for a secret and checks a secret against a digest.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}
