package auth

import "regexp"

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	// Minimal shape check, deliberately permissive rather than RFC-complete.
	emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// MinPasswordLength is the only password rule enforced at signup.
const MinPasswordLength = 8

// ValidateUsername reports whether s is 3-50 alphanumeric/underscore chars.
func ValidateUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// ValidateEmail reports whether s has the rough shape of an email address.
func ValidateEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidatePassword reports whether s meets the minimum length.
func ValidatePassword(s string) bool {
	return len(s) >= MinPasswordLength
}
