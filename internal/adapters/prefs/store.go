package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Well-known preference keys.
const (
	KeyGridLayout    = "grid-layout"
	KeyShowNSFW      = "show-nsfw"
	KeyCivitaiAPIKey = "civitai-api-key"
)

// Store persists user preferences as a flat YAML map. Every Set writes
// through to disk, so preferences survive across runs like a browser's local
// storage would.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// DefaultPath resolves the preference file location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "lokarni", "prefs.yaml"), nil
}

// Open loads the store at path, starting empty when the file is missing.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]any)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return s, nil
}

// GetString returns the stored string for key, or def when absent or of
// another type.
func (s *Store) GetString(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return def
}

// GetBool returns the stored bool for key, or def when absent or of another
// type.
func (s *Store) GetBool(key string, def bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

// Set stores a value and writes the file out immediately.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// flush writes the map to disk. Callers hold s.mu.
func (s *Store) flush() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preference directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
