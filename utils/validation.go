package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Indian mobile numbers: exactly 10 digits, first digit 6-9. An optional
	// +91 or 0 prefix is stripped before matching.
	phoneRegex = regexp.MustCompile(`^[6-9]\d{9}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z .'-]{1,49}$`)
	otpRegex   = regexp.MustCompile(`^\d{6}$`)
	// Password validation regex patterns
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// SanitizeString escapes HTML special characters and strips tags
func SanitizeString(input string) string {
	sanitized := html.EscapeString(input)
	htmlTagRegex := regexp.MustCompile(`<[^>]*>`)
	return htmlTagRegex.ReplaceAllString(sanitized, "")
}

// NormalizePhone strips spaces, dashes and a leading +91 or 0 country/trunk
// prefix from a phone number.
func NormalizePhone(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	phone = strings.TrimPrefix(phone, "+91")
	if len(phone) == 11 && strings.HasPrefix(phone, "0") {
		phone = phone[1:]
	}
	return phone
}

// ValidatePhone checks that the phone number is a valid 10-digit mobile
// number and returns the normalized form.
func ValidatePhone(phone string) (bool, string) {
	normalized := NormalizePhone(phone)
	if !phoneRegex.MatchString(normalized) {
		return false, ErrInvalidPhone
	}
	return true, normalized
}

// ValidateEmail checks if the email has a valid format
func ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "Email is required"
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return false, ErrInvalidEmail
	}
	return true, ""
}

// ValidateName checks person names for length and allowed characters
func ValidateName(name string) (bool, string) {
	name = strings.TrimSpace(name)
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return false, fmt.Sprintf("Name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return false, "Name contains invalid characters"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return false, fmt.Sprintf("Password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}
	if !hasLower.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasUpper.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasNumber.MatchString(password) {
		return false, "Password must contain at least one number"
	}
	return true, ""
}

// ValidateOTP checks that the code is a 6-digit numeric OTP
func ValidateOTP(code string) bool {
	return otpRegex.MatchString(code)
}

// ValidateLocale checks the locale against the portal's supported set
func ValidateLocale(locale string, supported map[string]bool) (bool, string) {
	if !supported[locale] {
		return false, ErrInvalidLocale
	}
	return true, ""
}
