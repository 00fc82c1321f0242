package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{
		"bob",
		"alice_99",
		"ABC",
		strings.Repeat("a", 3),
		strings.Repeat("a", 50),
	}
	for _, s := range valid {
		assert.True(t, ValidateUsername(s), "expected %q to be valid", s)
	}

	invalid := []string{
		"",
		"ab",
		strings.Repeat("a", 2),
		strings.Repeat("a", 51),
		"has space",
		"dash-ed",
		"dot.ted",
		"é_accent",
	}
	for _, s := range invalid {
		assert.False(t, ValidateUsername(s), "expected %q to be invalid", s)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@example.com",
		"first.last@sub.domain.org",
		"weird+tag@host.io",
	}
	for _, s := range valid {
		assert.True(t, ValidateEmail(s), "expected %q to be valid", s)
	}

	invalid := []string{
		"",
		"plain",
		"no-at.example.com",
		"two@@example.com",
		"nodot@example",
		"@example.com",
	}
	for _, s := range invalid {
		assert.False(t, ValidateEmail(s), "expected %q to be invalid", s)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword(""))
	assert.False(t, ValidatePassword("short7!"))
	assert.True(t, ValidatePassword("exactly8"))
	assert.True(t, ValidatePassword("a much longer passphrase"))
}
