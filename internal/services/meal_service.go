// Package services – MealService
//
// MealService owns the lifecycle of meal entries. It validates submitted
// ingredient lines, computes the meal's macros through the configured
// nutrition.Source, and appends the entry to the store. Reads always reload
// the full history from the store and bucket it by local calendar day; no
// history is cached between calls.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/store"
)

// MonthLayout is the YYYY-MM format accepted by Month.
const MonthLayout = "2006-01"

// Meal ids double as Realtime Database keys and URL path segments.
var idRE = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// AddMealInput is a meal submission. ID and Timestamp are optional; when
// absent the service assigns a UUID and the current time.
type AddMealInput struct {
	ID        string
	Timestamp *time.Time
	Items     []nutrition.MealItem
}

// DayReport is a day bucket plus progress against the daily goals.
type DayReport struct {
	history.Bucket
	Goals    nutrition.Goals        `json:"goals"`
	Progress nutrition.GoalProgress `json:"progress"`
}

// MonthReport holds one bucket per calendar day of a month.
type MonthReport struct {
	Month  string           `json:"month" example:"2026-10"`
	Count  int              `json:"count"`
	Macros nutrition.Macros `json:"macros"`
	Days   []history.Bucket `json:"days"`
}

// MealService coordinates meal persistence and the day/month rollups.
type MealService struct {
	Store    store.Store
	Source   nutrition.Source
	Location *time.Location
	Goals    nutrition.Goals

	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() string
}

// NewMealService constructs a MealService. A nil loc means time.Local.
func NewMealService(st store.Store, src nutrition.Source, loc *time.Location, goals nutrition.Goals) *MealService {
	if loc == nil {
		loc = time.Local
	}
	return &MealService{
		Store:    st,
		Source:   src,
		Location: loc,
		Goals:    goals,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Add validates in, computes its macros, and appends it to the store.
func (s *MealService) Add(ctx context.Context, in AddMealInput) (*domain.MealEntry, error) {
	tr := otel.Tracer("services/MealService")
	ctx, span := tr.Start(ctx, "Add", trace.WithAttributes(attribute.Int("meal.items", len(in.Items))))
	defer span.End()

	items, err := cleanItems(in.Items)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.NewID()
	} else if !idRE.MatchString(id) {
		return nil, ErrInvalidID
	}
	ts := s.Now()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = *in.Timestamp
	}

	macros, err := nutrition.Aggregate(ctx, s.Source, items)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("compute macros: %w", err)
	}
	if macros.IsZero() {
		return nil, ErrNothingResolved
	}

	e := domain.NewMealEntry(id, ts, items, macros)
	e.RecordedAt = s.Now().UTC()
	if err := s.Store.Append(ctx, e); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateMeal
		}
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("meal.id", id))
	mealsLogged.Inc()
	return &e, nil
}

// Delete removes a meal by id. Deleting an unknown id succeeds.
func (s *MealService) Delete(ctx context.Context, id string) error {
	tr := otel.Tracer("services/MealService")
	ctx, span := tr.Start(ctx, "Delete", trace.WithAttributes(attribute.String("meal.id", id)))
	defer span.End()

	id = strings.TrimSpace(id)
	if !idRE.MatchString(id) {
		// Add never stores such an id, so there is nothing to remove.
		return nil
	}
	if err := s.Store.Remove(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	mealsDeleted.Inc()
	return nil
}

// History returns every stored meal, newest first.
func (s *MealService) History(ctx context.Context) (history.History, error) {
	h, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(history.History, len(h))
	copy(out, h)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// ListPage returns a newest-first page of the history and the total count.
// It applies defaults for invalid page/pageSize.
func (s *MealService) ListPage(ctx context.Context, page, pageSize int) (history.History, int64, error) {
	tr := otel.Tracer("services/MealService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	if p, ok := s.Store.(store.Pager); ok {
		return p.Page(ctx, offset, pageSize)
	}
	all, err := s.History(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return history.History{}, total, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// Stats returns the meal count and the newest server write time, for ETags.
func (s *MealService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return store.Stats(ctx, s.Store)
}

// Today reports the current local day.
func (s *MealService) Today(ctx context.Context) (*DayReport, error) {
	tr := otel.Tracer("services/MealService")
	ctx, span := tr.Start(ctx, "Today")
	defer span.End()

	h, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.report(history.Today(h, s.Now(), s.Location)), nil
}

// Day reports the local calendar day given as YYYY-MM-DD.
func (s *MealService) Day(ctx context.Context, date string) (*DayReport, error) {
	tr := otel.Tracer("services/MealService")
	ctx, span := tr.Start(ctx, "Day", trace.WithAttributes(attribute.String("date", date)))
	defer span.End()

	ref, err := history.ParseDate(strings.TrimSpace(date), s.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	h, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.report(history.Day(h, ref, s.Location)), nil
}

// Month reports every day of the month given as YYYY-MM. An empty month
// means the current one.
func (s *MealService) Month(ctx context.Context, month string) (*MonthReport, error) {
	tr := otel.Tracer("services/MealService")
	ctx, span := tr.Start(ctx, "Month", trace.WithAttributes(attribute.String("month", month)))
	defer span.End()

	month = strings.TrimSpace(month)
	ref := s.Now().In(s.Location)
	if month != "" {
		m, err := time.ParseInLocation(MonthLayout, month, s.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, month)
		}
		ref = m
	}
	h, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	days := history.Month(h, ref.Year(), ref.Month(), s.Location)
	var (
		count  int
		macros []nutrition.Macros
	)
	for _, d := range days {
		count += d.Count
		for _, e := range d.Entries {
			macros = append(macros, e.Macros)
		}
	}
	return &MonthReport{
		Month:  ref.Format(MonthLayout),
		Count:  count,
		Macros: nutrition.SumRounded(macros),
		Days:   days,
	}, nil
}

func (s *MealService) report(b history.Bucket) *DayReport {
	return &DayReport{
		Bucket:   b,
		Goals:    s.Goals,
		Progress: nutrition.Progress(b.Macros, s.Goals),
	}
}

// cleanItems trims ingredient names and validates every line before any
// macros are computed.
func cleanItems(in []nutrition.MealItem) ([]nutrition.MealItem, error) {
	if len(in) == 0 {
		return nil, ErrNoItems
	}
	out := make([]nutrition.MealItem, 0, len(in))
	for i, it := range in {
		it.Ingredient = strings.TrimSpace(it.Ingredient)
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrInvalidItem, i+1, err)
		}
		out = append(out, it)
	}
	return out, nil
}
