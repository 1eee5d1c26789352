// Package settings persists the map access token.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrEmptyToken is returned when saving a blank token.
var ErrEmptyToken = errors.New("token must not be empty")

type file struct {
	MapboxToken string `yaml:"mapboxToken"`
}

// TokenStore reads and writes the mapboxToken key of a YAML file. When the
// file holds no token the fallback is used.
type TokenStore struct {
	mu       sync.RWMutex
	path     string
	token    string
	fallback string
}

// NewTokenStore loads path. A missing file is not an error.
func NewTokenStore(path, fallback string) (*TokenStore, error) {
	s := &TokenStore{path: path, fallback: strings.TrimSpace(fallback)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *TokenStore) load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	s.token = strings.TrimSpace(f.MapboxToken)
	return nil
}

// Token returns the saved token, or the fallback.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token != "" {
		return s.token
	}
	return s.fallback
}

// Configured reports whether any token is available.
func (s *TokenStore) Configured() bool {
	return s.Token() != ""
}

// Save trims token and writes it to the settings file.
func (s *TokenStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != "" {
		data, err := yaml.Marshal(file{MapboxToken: token})
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
		tmp := s.path + ".tmp"
		if err := os.WriteFile(tmp, data, 0600); err != nil {
			return fmt.Errorf("failed to write settings file: %w", err)
		}
		if err := os.Rename(tmp, s.path); err != nil {
			return fmt.Errorf("failed to replace settings file: %w", err)
		}
	}
	s.token = token
	return nil
}
