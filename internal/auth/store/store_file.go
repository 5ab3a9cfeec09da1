package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"intake/internal/auth/models"
)

// FileRepository persists credential slots as a JSON file, the process
// analogue of the browser's local storage. The file is chmod 0600 since it
// holds a bearer token.
type FileRepository struct {
	path string
}

// NewFile constructs a repository backed by the given file path.
func NewFile(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Save(token string, user *models.User) error {
	s, err := modernSlots(token, user)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return r.write(s)
}

func (r *FileRepository) SaveLegacy(user *models.User) error {
	s, err := legacySlots(user)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return r.write(s)
}

// Load reads the credential file. A missing, unreadable or corrupt file
// yields an absent session; callers treat that as logged-out.
func (r *FileRepository) Load() models.Session {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return models.Session{}
	}
	var s slots
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.Session{}
	}
	return decode(s)
}

// Clear removes the credential file. Removing an already-absent file is not
// an error, so Clear is idempotent.
func (r *FileRepository) Clear() error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (r *FileRepository) write(s slots) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
