package history

import (
	"sort"
	"time"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/nutrition"
)

// DateLayout is the calendar-day format used by the API and CLI.
const DateLayout = "2006-01-02"

// Bucket groups the entries of one local calendar day. Count distinguishes an
// empty day from one whose meals happen to total zero.
type Bucket struct {
	Date    string             `json:"date"    example:"2026-10-18"`
	Count   int                `json:"count"   example:"2"`
	Macros  nutrition.Macros   `json:"macros"`
	Entries []domain.MealEntry `json:"entries"`
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Day collects the entries whose timestamp falls in [midnight, next midnight)
// of ref's calendar day in loc, ordered by timestamp, and sums their stored
// macros with a single rounding.
func Day(h History, ref time.Time, loc *time.Location) Bucket {
	start := StartOfDay(ref, loc)
	end := start.AddDate(0, 0, 1)
	return bucket(h, start, end)
}

// Today is Day for now.
func Today(h History, now time.Time, loc *time.Location) Bucket {
	return Day(h, now, loc)
}

// Month returns one bucket per calendar day of month in year, in order.
func Month(h History, year int, month time.Month, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	out := make([]Bucket, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		out = append(out, bucket(h, d, d.AddDate(0, 0, 1)))
	}
	return out
}

// ParseDate parses a YYYY-MM-DD string as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

func bucket(h History, start, end time.Time) Bucket {
	entries := make([]domain.MealEntry, 0)
	macros := make([]nutrition.Macros, 0)
	for _, e := range h {
		if !e.Timestamp.Before(start) && e.Timestamp.Before(end) {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	for _, e := range entries {
		macros = append(macros, e.Macros)
	}
	return Bucket{
		Date:    start.Format(DateLayout),
		Count:   len(entries),
		Macros:  nutrition.SumRounded(macros),
		Entries: entries,
	}
}
