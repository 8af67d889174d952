// Package history treats the meal log as a plain value. Every function takes
// a History and returns a new one; nothing here holds process-wide state, so
// callers recompute aggregates from whatever History they were handed.
package history

import (
	"errors"

	"github.com/tbourn/nutritrack/internal/domain"
)

// ErrDuplicateID is returned by Append when the id is already present.
var ErrDuplicateID = errors.New("meal id already exists")

// History is an append-only collection of meal entries keyed by id. Storage
// order carries no meaning.
type History []domain.MealEntry

// Find returns the entry with id and whether it exists.
func (h History) Find(id string) (domain.MealEntry, bool) {
	for _, e := range h {
		if e.ID == id {
			return e, true
		}
	}
	return domain.MealEntry{}, false
}

// Append returns h plus e. The input is never modified.
func Append(h History, e domain.MealEntry) (History, error) {
	if _, ok := h.Find(e.ID); ok {
		return h, ErrDuplicateID
	}
	out := make(History, 0, len(h)+1)
	out = append(out, h...)
	return append(out, e), nil
}

// Remove returns h without the entry identified by id. Removing an unknown id
// returns an unchanged copy.
func Remove(h History, id string) History {
	out := make(History, 0, len(h))
	for _, e := range h {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
