// Package session persists the authenticated user's profile across
// process restarts, the way the browser client kept it in
// localStorage. The cache is restore-on-boot only: the auth slice is
// the source of truth at runtime and writes through on every change.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"storefront/internal/models"
)

type Cache struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Cache {
	return &Cache{path: path}
}

// Default places the cache under the user config directory.
func Default() (*Cache, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("session: config dir: %w", err)
	}
	return New(filepath.Join(dir, "storefront", "user.json")), nil
}

// Load returns the cached user, or (nil, nil) when none is stored.
func (c *Cache) Load() (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read cache: %w", err)
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		// A corrupt cache is treated as absent rather than fatal;
		// the user just logs in again.
		return nil, nil
	}
	return &user, nil
}

func (c *Cache) Save(user *models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("session: create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write cache: %w", err)
	}
	return nil
}

// Clear removes the cached identity. Clearing an absent cache is a
// no-op.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: clear cache: %w", err)
	}
	return nil
}
