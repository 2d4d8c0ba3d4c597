package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/safhub/portald/internal/auth"
	"github.com/safhub/portald/internal/fsutil"
)

var (
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// User is one stored account. The password is kept only as a one-way hash.
type User struct {
	PasswordHash string `json:"password"`
	Role         string `json:"role"`
}

// Entry pairs a username with its record for listing.
type Entry struct {
	Username string
	User     User
}

type Store struct {
	mu    sync.Mutex
	path  string
	users map[string]User
}

// Open loads the store at path. A missing or empty file bootstraps a single
// admin account with the given credentials and persists it immediately; a
// present but unparseable file fails with ErrStoreUnavailable.
func Open(path, adminUser, adminPassword string) (*Store, error) {
	s := &Store{path: path}

	b, err := fsutil.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		b = nil
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, &s.users); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrStoreUnavailable, path, err)
		}
	}
	if len(s.users) == 0 {
		if err := s.bootstrap(adminUser, adminPassword); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) bootstrap(adminUser, adminPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	s.users = map[string]User{
		adminUser: {PasswordHash: hash, Role: "admin"},
	}
	return s.saveLocked()
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(username string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	return u, ok
}

// Lookup satisfies auth.Credentials.
func (s *Store) Lookup(username string) (passwordHash, role string, ok bool) {
	u, ok := s.Get(username)
	return u.PasswordHash, u.Role, ok
}

// List returns all accounts ordered by username.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.users))
	for name, u := range s.users {
		entries = append(entries, Entry{Username: name, User: u})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Username < entries[j].Username })
	return entries
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Insert hashes password and adds a new account, persisting the whole store
// before returning.
func (s *Store) Insert(username, password, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return ErrUserExists
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	s.users[username] = User{PasswordHash: hash, Role: role}
	if err := s.saveLocked(); err != nil {
		delete(s.users, username)
		return err
	}
	return nil
}

// UpdatePassword replaces the stored hash for an existing account.
func (s *Store) UpdatePassword(username, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	prev := u
	u.PasswordHash = hash
	s.users[username] = u
	if err := s.saveLocked(); err != nil {
		s.users[username] = prev
		return err
	}
	return nil
}

func (s *Store) saveLocked() error {
	if err := fsutil.EnsureDir(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	b, err := json.MarshalIndent(s.users, "", "    ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if err := fsutil.WriteFileAtomic(s.path, b, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
