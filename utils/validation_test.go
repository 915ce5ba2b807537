package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "9876543210"},
		{"+919876543210", "9876543210"},
		{"09876543210", "9876543210"},
		{"98765 43210", "9876543210"},
		{"98765-43210", "9876543210"},
		{"(98765)43210", "9876543210"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestValidatePhone(t *testing.T) {
	t.Run("accepts valid mobile numbers in any written form", func(t *testing.T) {
		for _, phone := range []string{"9876543210", "+916123456789", "07123456789", "88888 88888"} {
			ok, normalized := ValidatePhone(phone)
			assert.True(t, ok, "phone %q", phone)
			assert.Len(t, normalized, 10)
		}
	})

	t.Run("rejects invalid numbers", func(t *testing.T) {
		for _, phone := range []string{
			"",            // empty
			"12345",       // too short
			"1234567890",  // starts below 6
			"5876543210",  // starts below 6
			"98765432101", // too long
			"98765abcde",  // letters
		} {
			ok, _ := ValidatePhone(phone)
			assert.False(t, ok, "phone %q", phone)
		}
	})
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"ravi@example.com", "a.b+tag@union.org.in"} {
		ok, _ := ValidateEmail(email)
		assert.True(t, ok, "email %q", email)
	}
	for _, email := range []string{"", "not-an-email", "missing@tld", "@example.com"} {
		ok, _ := ValidateEmail(email)
		assert.False(t, ok, "email %q", email)
	}
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("Sathi2026")
	assert.True(t, ok)

	for _, password := range []string{
		"short1A",      // too short
		"alllowercase1", // no uppercase
		"ALLUPPERCASE1", // no lowercase
		"NoDigitsHere",  // no number
	} {
		ok, _ := ValidatePassword(password)
		assert.False(t, ok, "password %q", password)
	}
}

func TestValidateOTP(t *testing.T) {
	assert.True(t, ValidateOTP("123456"))
	assert.False(t, ValidateOTP("12345"))
	assert.False(t, ValidateOTP("1234567"))
	assert.False(t, ValidateOTP("12a456"))
	assert.False(t, ValidateOTP(""))
}

func TestValidateLocale(t *testing.T) {
	supported := map[string]bool{"en": true, "hi": true, "te": true}

	for _, locale := range []string{"en", "hi", "te"} {
		ok, _ := ValidateLocale(locale, supported)
		assert.True(t, ok, "locale %q", locale)
	}
	for _, locale := range []string{"", "ta", "EN", "english"} {
		ok, _ := ValidateLocale(locale, supported)
		assert.False(t, ok, "locale %q", locale)
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Guntur", SanitizeString("Guntur"))
	assert.NotContains(t, SanitizeString(`<script>alert("x")</script>`), "<script>")
}
