package calorieninjas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tbourn/nutritrack/internal/nutrition"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New("  "); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got %v", err)
	}
}

func TestLookup_SendsKeyAndQuery_DecodesItems(t *testing.T) {
	var gotKey, gotQuery, gotPath string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query().Get("query")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"name":"chicken breast","protein_g":62,"carbohydrates_total_g":0,"fiber_g":0,"fat_total_g":7.2,"calories":330.4},
			{"name":"rice","protein_g":1.35,"carbohydrates_total_g":14,"fiber_g":0.2,"fat_total_g":0.15,"calories":65}
		]}`))
	})

	c, err := New("secret", WithBaseURL(srv.URL+"/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	items, err := c.Lookup(context.Background(), " 200g chicken breast and 50g rice ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if gotKey != "secret" || gotPath != "/v1/nutrition" || gotQuery != "200g chicken breast and 50g rice" {
		t.Fatalf("unexpected request key=%q path=%q query=%q", gotKey, gotPath, gotQuery)
	}
	if len(items) != 2 || items[0].Name != "chicken breast" || items[1].FatTotalG != 0.15 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if m := items[0].Macros(); m.Protein != 62 || m.Fats != 7.2 || m.Kcal != 330.4 {
		t.Fatalf("unexpected macros mapping: %+v", m)
	}
}

func TestLookup_EmptyItemsIsNotAnError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	c, _ := New("k", WithBaseURL(srv.URL))
	items, err := c.Lookup(context.Background(), "unicorn")
	if err != nil || items == nil || len(items) != 0 {
		t.Fatalf("want empty non-nil slice, got %v %v", items, err)
	}
}

func TestLookup_Non2xxReturnsAPIError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	})
	c, _ := New("k", WithBaseURL(srv.URL))
	_, err := c.Lookup(context.Background(), "rice")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized || apiErr.Body != "bad key" {
		t.Fatalf("want APIError 401, got %v", err)
	}
}

func TestLookup_BadJSONAndEmptyQuery(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	c, _ := New("k", WithBaseURL(srv.URL))
	if _, err := c.Lookup(context.Background(), "rice"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := c.Lookup(context.Background(), "   "); err == nil {
		t.Fatalf("expected empty query error")
	}
}

func TestLookup_RateLimitHonorsContext(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	c, _ := New("k", WithBaseURL(srv.URL), WithRateLimit(0.001, 1), WithHTTPClient(&http.Client{Timeout: time.Second}))

	if _, err := c.Lookup(context.Background(), "rice"); err != nil {
		t.Fatalf("first call should use the burst token: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Lookup(ctx, "rice"); err == nil {
		t.Fatalf("second call should fail waiting for a token")
	}
}

func TestSource_QueriesWithGramsAndSums(t *testing.T) {
	var gotQuery string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		if gotQuery == "100g unicorn" {
			_, _ = w.Write([]byte(`{"items":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[
			{"name":"a","protein_g":1,"carbohydrates_total_g":2,"fiber_g":0.5,"fat_total_g":0.25,"calories":10},
			{"name":"b","protein_g":2,"carbohydrates_total_g":3,"fiber_g":0.5,"fat_total_g":0.25,"calories":20}
		]}`))
	})
	c, _ := New("k", WithBaseURL(srv.URL))
	src := Source{Client: c}

	m, ok, err := src.Lookup(context.Background(), nutrition.MealItem{Ingredient: " chicken ", Quantity: 150.5})
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if gotQuery != "150.5g chicken" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if m != (nutrition.Macros{Protein: 3, Carbs: 5, Fiber: 1, Fats: 0.5, Kcal: 30}) {
		t.Fatalf("unexpected sum: %+v", m)
	}

	if _, ok, err := src.Lookup(context.Background(), nutrition.MealItem{Ingredient: "unicorn", Quantity: 100}); ok || err != nil {
		t.Fatalf("empty response should be unresolved, ok=%v err=%v", ok, err)
	}
}
