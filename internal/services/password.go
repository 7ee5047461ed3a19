package services

import (
	"fmt"
	"strconv"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into a stored digest and checks candidates against it.
type PasswordHasher interface {
	Digest(password string) (string, error)
	Matches(digest, password string) bool
}

// DemoHasher is a fast, deterministic, non-cryptographic digest. It offers no
// protection for real secrets; use BcryptHasher outside demos.
type DemoHasher struct{}

// Digest folds the UTF-16 code units of password into a wrapping 32-bit
// h*31+c accumulator and renders it in base 36.
func (DemoHasher) Digest(password string) (string, error) {
	return demoDigest(password), nil
}

func (DemoHasher) Matches(digest, password string) bool {
	return digest == demoDigest(password)
}

func demoDigest(s string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return strconv.FormatInt(int64(h), 36)
}

// BcryptHasher stores bcrypt digests.
type BcryptHasher struct {
	Cost int
}

func (b BcryptHasher) Digest(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptHasher) Matches(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// NewPasswordHasher returns the hasher registered under name ("demo" or "bcrypt").
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", "demo":
		return DemoHasher{}, nil
	case "bcrypt":
		return BcryptHasher{}, nil
	}
	return nil, fmt.Errorf("unknown password hasher %q", name)
}
