package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IdentityPolicy decides what a valid account identifier looks like and when
// two identifiers name the same account.
type IdentityPolicy interface {
	// Normalize validates raw and returns its canonical form.
	Normalize(raw string) (string, error)
	Equal(a, b string) bool
	ValidatePassword(password string) error
	// Phone returns the phone number carried by identifier, if any.
	Phone(identifier string) string
}

// UsernamePolicy accepts any non-blank username. Comparison ignores case.
type UsernamePolicy struct{}

func (UsernamePolicy) Normalize(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", invalid("username", "Username is required.")
	}
	return id, nil
}

func (UsernamePolicy) Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

func (UsernamePolicy) ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return invalid("password", "Password is required.")
	}
	return nil
}

func (UsernamePolicy) Phone(string) string { return "" }

// PhonePolicy identifies accounts by a 10-digit phone number. Formatting
// characters are stripped before validation, so "(555) 123-4567" and
// "5551234567" are the same account.
type PhonePolicy struct{}

// MinPhonePasswordLength is the shortest password PhonePolicy accepts.
const MinPhonePasswordLength = 4

func (PhonePolicy) Normalize(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return "", invalid("phone", "Phone number is required.")
	}
	if len(digits) != 10 {
		return "", invalid("phone", "Please enter a valid 10-digit phone number.")
	}
	return digits, nil
}

func (PhonePolicy) Equal(a, b string) bool {
	return a == b
}

func (PhonePolicy) ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return invalid("password", "Password is required.")
	}
	if utf8.RuneCountInString(password) < MinPhonePasswordLength {
		return invalid("password", fmt.Sprintf("Password must be at least %d characters.", MinPhonePasswordLength))
	}
	return nil
}

func (PhonePolicy) Phone(identifier string) string { return identifier }

// NewIdentityPolicy returns the policy registered under scheme ("username" or "phone").
func NewIdentityPolicy(scheme string) (IdentityPolicy, error) {
	switch scheme {
	case "", "username":
		return UsernamePolicy{}, nil
	case "phone":
		return PhonePolicy{}, nil
	}
	return nil, fmt.Errorf("unknown identity scheme %q", scheme)
}
