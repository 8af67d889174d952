package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
	"github.com/tbourn/nutritrack/internal/nutrition"
)

// Session keeps a local copy of the meal history in step with the server.
// Adds and deletes show up in the local view before the server answers and
// are rolled back if it refuses them. Operations are serialized.
type Session struct {
	api   *Client
	table *nutrition.Table
	loc   *time.Location

	// Now and NewID are swapped in tests.
	Now   func() time.Time
	NewID func() string

	// OnChange, when set, is called with every new local view: once with the
	// optimistic state and once more after the server has answered.
	OnChange func(history.History)

	mu   sync.Mutex
	hist history.History
}

// NewSession builds a Session. table prices meals locally until the
// server's figures arrive; loc decides local calendar days.
func NewSession(api *Client, table *nutrition.Table, loc *time.Location) *Session {
	if loc == nil {
		loc = time.Local
	}
	return &Session{
		api:   api,
		table: table,
		loc:   loc,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Sync replaces the local view with the server's full history.
func (s *Session) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meals, err := s.api.AllMeals(ctx)
	if err != nil {
		return err
	}
	s.hist = history.History(meals)
	s.notify()
	return nil
}

// History returns the current local view.
func (s *Session) History() history.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist
}

// Today buckets the local view for the current day.
func (s *Session) Today() history.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return history.Today(s.hist, s.Now(), s.loc)
}

// Add logs a meal. The local view gets an entry priced with the table right
// away; on success it is replaced by the server's stored entry, on failure
// the view reverts and the server error is returned.
func (s *Session) Add(ctx context.Context, items []nutrition.MealItem, at *time.Time) (*domain.MealEntry, error) {
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	if len(items) == 0 {
		return nil, errors.New("no items")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.Now()
	if at != nil {
		ts = *at
	}
	tentative := domain.NewMealEntry(s.NewID(), ts, items, s.table.Aggregate(items))
	p, err := history.BeginAppend(s.hist, tentative)
	if err != nil {
		return nil, err
	}
	s.hist = p.View()
	s.notify()

	stamp := tentative.Timestamp
	created, callErr := s.api.AddMeal(ctx, NewMeal{ID: tentative.ID, Timestamp: &stamp, Items: items})
	settled, err := p.Settle(callErr)
	if err != nil {
		return nil, err
	}
	if callErr == nil {
		settled = history.Remove(settled, tentative.ID)
		if settled, err = history.Append(settled, *created); err != nil {
			return nil, err
		}
	}
	s.hist = settled
	s.notify()
	if callErr != nil {
		return nil, callErr
	}
	return created, nil
}

// Delete removes a meal locally at once and restores it if the server
// refuses. Unknown ids succeed.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := history.BeginRemove(s.hist, id)
	s.hist = p.View()
	s.notify()

	callErr := s.api.DeleteMeal(ctx, id)
	settled, err := p.Settle(callErr)
	if err != nil {
		return err
	}
	s.hist = settled
	s.notify()
	return callErr
}

func (s *Session) notify() {
	if s.OnChange != nil {
		s.OnChange(s.hist)
	}
}
