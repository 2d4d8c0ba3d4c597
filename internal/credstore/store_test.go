package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/safhub/portald/internal/auth"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	s, err := Open(path, "saf", "12345")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, path
}

func TestOpenBootstrapsDefaultAdmin(t *testing.T) {
	s, path := openTestStore(t)

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	u, ok := s.Get("saf")
	if !ok {
		t.Fatal("default admin missing")
	}
	if u.Role != "admin" {
		t.Errorf("Role = %q, want %q", u.Role, "admin")
	}
	if !auth.VerifyPassword(u.PasswordHash, "12345") {
		t.Error("default admin password does not verify")
	}
	if u.PasswordHash == "12345" {
		t.Error("password stored in plaintext")
	}

	// The bootstrap record must already be on disk.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not persisted: %v", err)
	}

	if _, err := auth.Authenticate(s, "saf", "12345", "admin"); err != nil {
		t.Errorf("Authenticate default admin: %v", err)
	}
}

func TestOpenEmptyFileBootstraps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, "saf", "12345")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.Get("saf"); !ok {
		t.Error("empty file did not bootstrap the default admin")
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path, "saf", "12345")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestInsert(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Insert("bob", "pw1", "editor"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	u, ok := s.Get("bob")
	if !ok {
		t.Fatal("inserted user missing")
	}
	if u.Role != "editor" {
		t.Errorf("Role = %q, want %q", u.Role, "editor")
	}
	if !auth.VerifyPassword(u.PasswordHash, "pw1") {
		t.Error("stored hash does not verify against the plaintext")
	}
	if u.PasswordHash == "pw1" {
		t.Error("password stored in plaintext")
	}

	// Role comparisons are exact: the right role succeeds, any other fails.
	if _, err := auth.Authenticate(s, "bob", "pw1", "editor"); err != nil {
		t.Errorf("Authenticate bob/editor: %v", err)
	}
	if _, err := auth.Authenticate(s, "bob", "pw1", "admin"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Authenticate bob/admin err = %v, want ErrInvalidCredentials", err)
	}

	if err := s.Insert("bob", "other", "admin"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate Insert err = %v, want ErrUserExists", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	s, _ := openTestStore(t)
	if err := s.Insert("bob", "old", "user"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := s.UpdatePassword("bob", "new"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	u, _ := s.Get("bob")
	if auth.VerifyPassword(u.PasswordHash, "old") {
		t.Error("old password still verifies after update")
	}
	if !auth.VerifyPassword(u.PasswordHash, "new") {
		t.Error("new password does not verify after update")
	}
	// Role survives a password change.
	if u.Role != "user" {
		t.Errorf("Role = %q, want %q", u.Role, "user")
	}

	if err := s.UpdatePassword("nobody", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdatePassword(nobody) err = %v, want ErrUserNotFound", err)
	}
}

func TestList(t *testing.T) {
	s, _ := openTestStore(t)
	for _, name := range []string{"zoe", "bob", "amy"} {
		if err := s.Insert(name, "pw", "user"); err != nil {
			t.Fatalf("Insert %s: %v", name, err)
		}
	}
	got := s.List()
	want := []string{"amy", "bob", "saf", "zoe"}
	if len(got) != len(want) {
		t.Fatalf("List returned %d entries, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Username != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, e.Username, want[i])
		}
	}
}

func TestReopenRoundTrip(t *testing.T) {
	s, path := openTestStore(t)
	if err := s.Insert("bob", "pw1", "editor"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Reopening an unchanged store yields the same parsed mapping.
	s2, err := Open(path, "saf", "12345")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reflect.DeepEqual(s.List(), s2.List()) {
		t.Error("reopened store differs from the original")
	}

	s3, err := Open(path, "saf", "12345")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reflect.DeepEqual(s2.List(), s3.List()) {
		t.Error("two loads of an unchanged store differ")
	}
}
