package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// A mutex serialises access within one process; there is no file locking.

const DefaultFileName = "todos.json"

type document struct {
	NextID int          `json:"next_id"`
	Items  []model.Item `json:"items"`
}

// Store keeps every owner's todos in one JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ store.Store = (*Store)(nil)

// New returns a store backed by path. The file is created on first write.
func New(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{path: path}
}

func (s *Store) load() (document, error) {
	doc := document{NextID: 1}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("json unmarshal: %w", err)
	}
	if doc.NextID < 1 {
		doc.NextID = 1
	}
	for _, it := range doc.Items {
		if it.ID >= doc.NextID {
			doc.NextID = it.ID + 1
		}
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, userID int) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []model.Item{}
	for _, it := range doc.Items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	it := model.Item{
		ID:        doc.NextID,
		UserID:    d.UserID,
		Title:     d.Title,
		Completed: d.Completed,
	}
	doc.NextID++
	doc.Items = append(doc.Items, it)
	if err := s.save(doc); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	kept := model.Without(doc.Items, id)
	if len(kept) == len(doc.Items) {
		return store.ErrNotFound
	}
	doc.Items = kept
	return s.save(doc)
}

func (s *Store) Close() error { return nil }
