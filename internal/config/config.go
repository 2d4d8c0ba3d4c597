package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/safhub/portald/internal/auth"
)

const (
	DefaultListen   = ":8080"
	DefaultDataDir  = "./data"
	DefaultAdmin    = "saf"
	DefaultAdminPwd = "12345"

	usersFileName = "users.json"
)

type AdminBootstrap struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Config struct {
	Listen  string `yaml:"listen"`
	DataDir string `yaml:"data_dir"`
	// SessionSecret signs session cookies. base64url or raw text; when empty
	// a random per-process secret is generated at startup, so sessions do not
	// survive a restart. There is no fixed fallback value.
	SessionSecret string         `yaml:"session_secret"`
	DefaultAdmin  AdminBootstrap `yaml:"default_admin"`
	// LandingNotice is markdown rendered on the landing page.
	LandingNotice string `yaml:"landing_notice"`
}

// Load reads the YAML file at path and applies environment overrides.
// A missing file yields the defaults; a present but invalid file is an error.
func Load(path string) (Config, error) {
	cfg := Config{
		Listen:       DefaultListen,
		DataDir:      DefaultDataDir,
		DefaultAdmin: AdminBootstrap{Username: DefaultAdmin, Password: DefaultAdminPwd},
	}

	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORTALD_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("PORTALD_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PORTALD_SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}

	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.DefaultAdmin.Username == "" {
		cfg.DefaultAdmin.Username = DefaultAdmin
	}
	if cfg.DefaultAdmin.Password == "" {
		cfg.DefaultAdmin.Password = DefaultAdminPwd
	}
	return cfg, nil
}

// UsersFile returns the credential store location under the data dir.
func (c Config) UsersFile() string {
	return filepath.Join(c.DataDir, usersFileName)
}

// SecretBytes resolves the session signing key. An unset secret produces a
// random ephemeral one; a short secret is zero-padded to 16 bytes.
func (c Config) SecretBytes() ([]byte, error) {
	text := c.SessionSecret
	if text == "" {
		s, err := auth.NewRandomSecretB64(32)
		if err != nil {
			return nil, err
		}
		text = s
	}
	raw, err := base64.RawURLEncoding.DecodeString(text)
	if err != nil {
		// Fallback: accept raw string.
		raw = []byte(text)
	}
	if len(raw) < 16 {
		pad := make([]byte, 16)
		copy(pad, raw)
		raw = pad
	}
	return raw, nil
}
