package auth

import (
	"errors"
	"testing"
)

// mapCredentials implements Credentials over a fixed map for testing.
type mapCredentials map[string]struct{ hash, role string }

func (m mapCredentials) Lookup(username string) (string, string, bool) {
	u, ok := m[username]
	return u.hash, u.role, ok
}

func TestAuthenticate(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	src := mapCredentials{
		"bob": {hash: hash, role: "editor"},
	}

	tests := []struct {
		name     string
		username string
		password string
		role     string
		wantOK   bool
	}{
		{"valid", "bob", "pw1", "editor", true},
		{"wrong password", "bob", "pw2", "editor", false},
		{"wrong role", "bob", "pw1", "admin", false},
		{"unknown user", "alice", "pw1", "editor", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := Authenticate(src, tt.username, tt.password, tt.role)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Authenticate: %v", err)
				}
				if sess.Username != tt.username || sess.Role != tt.role {
					t.Errorf("session = %+v, want {%s %s}", sess, tt.username, tt.role)
				}
				return
			}
			// Every failure mode collapses into the same sentinel.
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestHumanAuthError(t *testing.T) {
	if got := HumanAuthError(ErrInvalidCredentials); got != "Invalid credentials or role mismatch." {
		t.Errorf("HumanAuthError = %q", got)
	}
	if got := HumanAuthError(nil); got != "" {
		t.Errorf("HumanAuthError(nil) = %q, want empty", got)
	}
}
