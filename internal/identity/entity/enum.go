package entity

import (
	"errors"
	"strconv"
	"strings"
)

var ErrPurposeUnknown = errors.New("identity: otp purpose is unknown")

// Purpose scopes an OTP so a code issued for one flow cannot be used in another.
type Purpose int16

const (
	PurposeUnknown Purpose = 0

	// PurposeRegistration proves control of a number before the account exists.
	PurposeRegistration Purpose = 1

	// PurposeLogin proves control of a registered number.
	PurposeLogin Purpose = 2

	// PurposeProfileMobileChange proves control of the new number during a profile update.
	PurposeProfileMobileChange Purpose = 3
)

func (p Purpose) String() string {
	switch p {
	case PurposeRegistration:
		return "registration"
	case PurposeLogin:
		return "login"
	case PurposeProfileMobileChange:
		return "profile_mobile_change"
	default:
		return "unknown"
	}
}

func (p Purpose) IsUnknown() bool {
	switch p {
	case PurposeRegistration, PurposeLogin, PurposeProfileMobileChange:
		return false
	default:
		return true
	}
}

// ParsePurpose accepts the name ("login") or the numeric value ("2").
func ParsePurpose(s string) (Purpose, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range []Purpose{PurposeRegistration, PurposeLogin, PurposeProfileMobileChange} {
		if s == p.String() || s == strconv.Itoa(int(p)) {
			return p, nil
		}
	}
	return PurposeUnknown, ErrPurposeUnknown
}

// VerifyReason explains a failed verification. There is one reason on
// purpose: wrong, expired and already used codes look the same to callers.
type VerifyReason string

const (
	VerifyReasonNone             VerifyReason = ""
	VerifyReasonInvalidOrExpired VerifyReason = "invalid_or_expired"
)
