package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
)

// JSONFile keeps the whole history as one JSON array on disk. Writes are
// read-modify-write under a mutex and land through a temp file and rename.
// Two processes sharing a file are not coordinated: the last rename wins.
type JSONFile struct {
	path string
	mu   sync.Mutex
}

// NewJSONFile returns a Store backed by path. The file is created on the
// first write; its parent directory must exist.
func NewJSONFile(path string) (*JSONFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	return &JSONFile{path: path}, nil
}

func (s *JSONFile) List(ctx context.Context) (history.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *JSONFile) Append(ctx context.Context, e domain.MealEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.read()
	if err != nil {
		return err
	}
	e.Normalize()
	next, err := history.Append(h, e)
	if errors.Is(err, history.ErrDuplicateID) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	return s.write(next)
}

func (s *JSONFile) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := h.Find(id); !ok {
		return nil
	}
	return s.write(history.Remove(h, id))
}

func (s *JSONFile) read() (history.History, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return history.History{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return history.History{}, nil
	}
	var h history.History
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	for i := range h {
		h[i].Normalize()
	}
	return h, nil
}

func (s *JSONFile) write(h history.History) error {
	b, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
