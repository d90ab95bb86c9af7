package domain

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Validation errors. The message is the code returned to clients.
var (
	ErrInvalidUsername       = errors.New("invalid_username_format")
	ErrInvalidEmail          = errors.New("invalid_email")
	ErrPasswordTooShort      = errors.New("password_too_short")
	ErrPasswordTooLong       = errors.New("password_too_long")
	ErrPasswordMissingLetter = errors.New("password_missing_letter")
	ErrPasswordMissingNumber = errors.New("password_missing_number")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks the 3-20 character [a-zA-Z0-9_] rule.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the complexity policy. Length is counted in runes.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if n > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		return ErrPasswordMissingLetter
	}
	if !hasDigit {
		return ErrPasswordMissingNumber
	}
	return nil
}

// NormalizeIdentifier folds a login string (email or username) into the form
// used for lookups and throttle keys: NFKC, trimmed, lower-cased.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// NormalizeEmail is NormalizeIdentifier for addresses.
func NormalizeEmail(email string) string {
	return NormalizeIdentifier(email)
}

// IsEmailIdentifier reports whether a login string should be looked up as an
// email rather than a username. Usernames can never contain '@'.
func IsEmailIdentifier(login string) bool {
	return strings.Contains(login, "@")
}

// MaskEmail keeps the first two characters of the local part and the domain,
// e.g. "alice@example.com" -> "al***@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at+1:]

	keep := 2
	if utf8.RuneCountInString(local) <= keep {
		keep = 1
	}
	runes := []rune(local)
	return string(runes[:keep]) + "***@" + domain
}
