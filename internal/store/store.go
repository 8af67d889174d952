// Package store is the storage collaborator for the meal history. A Store
// persists an append-only, delete-by-id collection of meal entries; the
// backends differ only in where the bytes live.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
)

// ErrDuplicate is returned by Append when an entry with the same id exists.
var ErrDuplicate = errors.New("meal already exists")

// Store is the persistence contract used by the services.
type Store interface {
	// List returns the full history. Order carries no meaning.
	List(ctx context.Context) (history.History, error)
	// Append stores e. Appending an existing id returns ErrDuplicate.
	Append(ctx context.Context, e domain.MealEntry) error
	// Remove deletes the entry with id. A missing id is not an error.
	Remove(ctx context.Context, id string) error
}

// Stater is implemented by backends that can report the entry count and the
// newest RecordedAt without loading the whole history.
type Stater interface {
	Stats(ctx context.Context) (count int64, latest *time.Time, err error)
}

// Pager is implemented by backends that can return a newest-first page of
// the history together with the total count.
type Pager interface {
	Page(ctx context.Context, offset, limit int) (history.History, int64, error)
}

// Stats returns count and newest RecordedAt for s, using Stater when the
// backend provides it. Every add moves RecordedAt forward and every delete
// lowers the count, so the pair changes on each write.
func Stats(ctx context.Context, s Store) (int64, *time.Time, error) {
	if st, ok := s.(Stater); ok {
		return st.Stats(ctx)
	}
	h, err := s.List(ctx)
	if err != nil {
		return 0, nil, err
	}
	if len(h) == 0 {
		return 0, nil, nil
	}
	latest := h[0].RecordedAt
	for _, e := range h[1:] {
		if e.RecordedAt.After(latest) {
			latest = e.RecordedAt
		}
	}
	return int64(len(h)), &latest, nil
}
