package models

// User represents an account known to this client.
type User struct {
	Identifier     string `json:"username" validate:"required"`
	DisplayName    string `json:"displayName" validate:"required"`
	Phone          string `json:"phone,omitempty"`
	PasswordDigest string `json:"passwordHash"` // Digest only, never the raw password
}

// Session is the currently authenticated user, derived from a User.
type Session struct {
	Identifier  string `json:"username"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone,omitempty"`
}

// NewSession derives the public session view of a user.
func NewSession(u User) Session {
	return Session{Identifier: u.Identifier, DisplayName: u.DisplayName, Phone: u.Phone}
}

// SessionState distinguishes "not loaded yet" from "loaded, nobody signed in".
type SessionState int

const (
	SessionUninitialized SessionState = iota
	SessionAnonymous
	SessionActive
)

func (s SessionState) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionActive:
		return "active"
	default:
		return "uninitialized"
	}
}
