package history

import (
	"errors"
	"sync"

	"github.com/tbourn/nutritrack/internal/domain"
)

// ErrAlreadySettled is returned when a Pending change is settled twice.
var ErrAlreadySettled = errors.New("pending change already settled")

// Pending is a tentative change to a History. View shows the optimistic
// result immediately; Settle confirms it when the storage call succeeded and
// rolls back to the prior History when it failed.
type Pending struct {
	mu      sync.Mutex
	prev    History
	next    History
	settled bool
}

// BeginAppend starts an optimistic append of e to h.
func BeginAppend(h History, e domain.MealEntry) (*Pending, error) {
	next, err := Append(h, e)
	if err != nil {
		return nil, err
	}
	return &Pending{prev: h, next: next}, nil
}

// BeginRemove starts an optimistic removal of id from h.
func BeginRemove(h History, id string) *Pending {
	return &Pending{prev: h, next: Remove(h, id)}
}

// View returns the tentative History.
func (p *Pending) View() History {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// Settle resolves the change with the outcome of the storage call: err == nil
// keeps the tentative History, anything else reverts to the prior one.
func (p *Pending) Settle(err error) (History, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.settled {
		return nil, ErrAlreadySettled
	}
	p.settled = true
	if err != nil {
		return p.prev, nil
	}
	return p.next, nil
}
