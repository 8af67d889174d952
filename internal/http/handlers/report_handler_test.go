package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tbourn/nutritrack/internal/services"
)

func seedDay(t *testing.T, r http.Handler) {
	t.Helper()
	for _, body := range []string{
		`{"id":"a","timestamp":"2026-10-18T08:00:00Z","items":[{"ingredient":"chicken breast","quantity":200}]}`,
		`{"id":"b","timestamp":"2026-10-18T12:00:00Z","items":[{"ingredient":"rice","quantity":50},{"ingredient":"chicken","quantity":100}]}`,
		`{"id":"c","timestamp":"2026-10-17T23:59:59Z","items":[{"ingredient":"apple","quantity":100}]}`,
		`{"id":"d","timestamp":"2026-09-30T10:00:00Z","items":[{"ingredient":"beef","quantity":100}]}`,
	} {
		if w := do(r, http.MethodPost, "/meals", body); w.Code != http.StatusCreated {
			t.Fatalf("seed %s: %d %s", body, w.Code, w.Body.String())
		}
	}
}

func TestToday(t *testing.T) {
	_, r := newTestHandlers(t, nil)
	seedDay(t, r)

	w := do(r, http.MethodGet, "/days/today", "")
	if w.Code != http.StatusOK {
		t.Fatalf("today = %d", w.Code)
	}
	rep := decode[services.DayReport](t, w)
	if rep.Date != "2026-10-18" || rep.Count != 2 || rep.Macros.Kcal != 560 || rep.Macros.Protein != 94.4 {
		t.Fatalf("today = %+v", rep.Bucket)
	}
	if rep.Entries[0].ID != "a" || rep.Entries[1].ID != "b" {
		t.Fatalf("entries out of order: %s, %s", rep.Entries[0].ID, rep.Entries[1].ID)
	}
	if rep.Goals.Kcal != 2000 || rep.Progress.Kcal != 28 {
		t.Fatalf("goals = %+v progress = %+v", rep.Goals, rep.Progress)
	}
}

func TestDay(t *testing.T) {
	_, r := newTestHandlers(t, nil)
	seedDay(t, r)

	rep := decode[services.DayReport](t, do(r, http.MethodGet, "/days/2026-10-17", ""))
	if rep.Count != 1 || rep.Macros.Kcal != 52 || rep.Entries[0].ID != "c" {
		t.Fatalf("2026-10-17 = %+v", rep.Bucket)
	}

	empty := decode[services.DayReport](t, do(r, http.MethodGet, "/days/2026-01-01", ""))
	if empty.Count != 0 || empty.Entries == nil || !empty.Macros.IsZero() {
		t.Fatalf("empty day = %+v", empty.Bucket)
	}

	wantError(t, do(r, http.MethodGet, "/days/18-10-2026", ""), http.StatusBadRequest, ErrCodeBadRequest)
}

func TestCalendar(t *testing.T) {
	_, r := newTestHandlers(t, nil)
	seedDay(t, r)

	cur := decode[services.MonthReport](t, do(r, http.MethodGet, "/calendar", ""))
	if cur.Month != "2026-10" || len(cur.Days) != 31 || cur.Count != 3 || cur.Macros.Kcal != 612 {
		t.Fatalf("current month = %s days=%d count=%d kcal=%v", cur.Month, len(cur.Days), cur.Count, cur.Macros.Kcal)
	}
	if cur.Days[16].Date != "2026-10-17" || cur.Days[16].Count != 1 || cur.Days[17].Count != 2 {
		t.Fatalf("day buckets misplaced: %+v / %+v", cur.Days[16], cur.Days[17])
	}

	sep := decode[services.MonthReport](t, do(r, http.MethodGet, "/calendar?month=2026-09", ""))
	if len(sep.Days) != 30 || sep.Count != 1 || sep.Macros.Kcal != 250 {
		t.Fatalf("september = %+v", sep)
	}

	wantError(t, do(r, http.MethodGet, "/calendar?month=2026-13", ""), http.StatusBadRequest, ErrCodeBadRequest)
}

func TestReports_StoreFailure(t *testing.T) {
	r := newEngine(New(stubMeals{dayErr: errors.New("read failed")}, nil, fakeSessions{}, CookieOptions{}))
	for _, path := range []string{"/days/today", "/days/2026-10-18", "/calendar"} {
		wantError(t, do(r, http.MethodGet, path, ""), http.StatusInternalServerError, ErrCodeInternal)
	}
}
