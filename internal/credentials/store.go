package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"storylink/internal/config"
)

// Stored is the persisted mirror of a session.
type Stored struct {
	Email string `toml:"email"`
}

// Store reads and writes the remembered email.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// NewStoreFromConfig uses the credentials file under the configured state dir.
func NewStoreFromConfig(cfg *config.Config) *Store {
	return NewStore(cfg.CredentialsPath())
}

// Path returns the credentials file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the remembered credentials. A missing file yields an empty value.
func (s *Store) Load() (Stored, error) {
	if err := s.ensureDir(); err != nil {
		return Stored{}, err
	}
	if err := s.lock.RLock(); err != nil {
		return Stored{}, fmt.Errorf("lock credentials: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Stored{}, nil
	}
	if err != nil {
		return Stored{}, fmt.Errorf("read credentials: %w", err)
	}
	var stored Stored
	if err := toml.Unmarshal(data, &stored); err != nil {
		return Stored{}, fmt.Errorf("parse credentials %s: %w", s.path, err)
	}
	stored.Email = strings.TrimSpace(stored.Email)
	return stored, nil
}

// RememberEmail persists email, replacing any previous value.
func (s *Store) RememberEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock credentials: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := toml.Marshal(Stored{Email: email})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

// Forget removes the remembered email. Forgetting twice is not an error.
func (s *Store) Forget() error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock credentials: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	return nil
}
