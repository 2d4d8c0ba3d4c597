package auth

import (
	"errors"
	"fmt"
)

// Session is the authenticated state bound to a browser after login.
type Session struct {
	Username string
	Role     string
}

// Credentials is the read surface Authenticate needs from a user store.
type Credentials interface {
	Lookup(username string) (passwordHash, role string, ok bool)
}

// Authenticate verifies username/password against src for the requested role.
// A missing user, a role mismatch and a wrong password all fail with the same
// ErrInvalidCredentials so the caller cannot tell which case occurred.
func Authenticate(src Credentials, username, password, role string) (Session, error) {
	hash, storedRole, ok := src.Lookup(username)
	if !ok || storedRole != role || !VerifyPassword(hash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return Session{Username: username, Role: role}, nil
}

func HumanAuthError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials or role mismatch."
	default:
		return fmt.Sprintf("Authentication failed: %v", err)
	}
}
