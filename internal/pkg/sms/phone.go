package sms

import "strings"

// NormalizeE164 rewrites a local mobile number into E.164 using
// countryCode (digits only, for example "92"):
//
//	+923001234567 -> +923001234567
//	03001234567   -> +923001234567
//	923001234567  -> +923001234567
//	3001234567    -> +923001234567
func NormalizeE164(phone, countryCode string) string {
	phone = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	switch {
	case phone == "", strings.HasPrefix(phone, "+"):
		return phone
	case strings.HasPrefix(phone, "0"):
		return "+" + countryCode + phone[1:]
	case strings.HasPrefix(phone, countryCode):
		return "+" + phone
	default:
		return "+" + countryCode + phone
	}
}
