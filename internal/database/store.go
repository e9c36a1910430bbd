package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/itd-social/core/internal/models"
)

// Store owns the application document on disk. Every operation is a full
// load-mutate-save cycle over the in-memory tree; Update holds the write lock
// across the mutation and the save, so concurrent writers serialize instead
// of clobbering each other. The on-disk format stays the flat JSON tree the
// product has always used.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  *models.Document
}

// Open loads the document at path, seeding a fresh one when the file does not
// exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.doc = models.NewDocument()
		if err := s.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read database %q: %w", path, err)
	default:
		doc := &models.Document{}
		if err := json.Unmarshal(content, doc); err != nil {
			return nil, fmt.Errorf("parse database %q: %w", path, err)
		}
		s.doc = doc
	}

	return s, nil
}

// View runs fn with read access to the document. fn must not mutate the tree
// and must not retain references past its return.
func (s *Store) View(fn func(doc *models.Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.doc)
}

// Update runs fn with exclusive access and persists the whole document after
// it returns. When fn fails nothing is written.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.doc); err != nil {
		return err
	}
	return s.persist()
}

// Path returns the on-disk location of the document.
func (s *Store) Path() string { return s.path }

func (s *Store) persist() error {
	content, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, content, 0o644); err != nil {
		return fmt.Errorf("write database %q: %w", s.path, err)
	}
	return nil
}
