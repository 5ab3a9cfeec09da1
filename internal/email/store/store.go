// Package store provides the local template library used when the backend has
// no email endpoints. Templates live in a single JSON file next to the cached
// credentials, so the email workflow keeps working offline.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"intake/internal/email/models"
	"intake/internal/sentinel"
	dErrors "intake/pkg/domain-errors"
)

// TemplateStore is a file-backed template library. All operations load and
// persist the whole file; template libraries are small.
type TemplateStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewTemplateStore creates a store persisting to the given file path.
func NewTemplateStore(path string) *TemplateStore {
	return &TemplateStore{path: path, now: time.Now}
}

// List returns all templates, newest first.
func (s *TemplateStore) List() ([]models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns one template by id.
func (s *TemplateStore) Get(id string) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}
	return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "template "+id+" not found")
}

// Save inserts tpl when its ID is empty, otherwise replaces the stored
// template with the same ID. The stored copy is returned.
func (s *TemplateStore) Save(tpl models.Template) (*models.Template, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.load()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tpl.UpdatedAt = now
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
		tpl.CreatedAt = now
		templates = append(templates, tpl)
		return &tpl, s.persist(templates)
	}

	for i := range templates {
		if templates[i].ID == tpl.ID {
			tpl.CreatedAt = templates[i].CreatedAt
			templates[i] = tpl
			return &tpl, s.persist(templates)
		}
	}
	return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "template "+tpl.ID+" not found")
}

// Delete removes a template. Deleting an absent ID is an error; the caller
// named something specific.
func (s *TemplateStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.load()
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].ID == id {
			return s.persist(append(templates[:i], templates[i+1:]...))
		}
	}
	return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "template "+id+" not found")
}

func (s *TemplateStore) load() ([]models.Template, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read template library")
	}

	var templates []models.Template
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, dErrors.Wrap(sentinel.ErrCorrupt, dErrors.CodeInternal, "template library is not valid JSON")
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})
	return templates, nil
}

func (s *TemplateStore) persist(templates []models.Template) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create template directory")
	}
	raw, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode template library")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write template library")
	}
	return nil
}
