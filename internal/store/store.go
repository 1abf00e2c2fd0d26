// Package store persists the balance record between runs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/banktotal-dev/banktotal/internal/model"
)

// Store reads and overwrites the balance file. The file is a flat JSON
// object of institution name to integer balance.
type Store struct {
	path string
}

// New creates a Store backed by path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the balance file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted balances. A missing file yields an empty
// record and no error. An unreadable or corrupt file yields an empty
// record and the error, so callers can report it and carry on.
func (s *Store) Load() (model.Balances, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Balances{}, nil
		}
		return model.Balances{}, fmt.Errorf("reading balances: %w", err)
	}

	var b model.Balances
	if err := json.Unmarshal(data, &b); err != nil {
		return model.Balances{}, fmt.Errorf("parsing balances %s: %w", s.path, err)
	}
	if b == nil {
		b = model.Balances{}
	}
	return b, nil
}

// Save overwrites the balance file with b.
func (s *Store) Save(b model.Balances) error {
	if b == nil {
		b = model.Balances{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling balances: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating balances dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing balances: %w", err)
	}
	return nil
}
