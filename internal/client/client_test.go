package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/nutritrack/internal/auth"
	"github.com/tbourn/nutritrack/internal/config"
	httpapi "github.com/tbourn/nutritrack/internal/http"
	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/repo"
	"github.com/tbourn/nutritrack/internal/services"
	"github.com/tbourn/nutritrack/internal/store"
)

// newServer runs the real API over in-memory sqlite and returns its base URL.
func newServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:client_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	table := nutrition.DefaultTable()
	sessions, err := auth.NewSessions("pw", []byte("client-test-key"), time.Hour)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		Meals:     services.NewMealService(store.NewSQL(db), table, time.UTC, nutrition.DefaultGoals()),
		Nutrition: &services.NutritionService{Table: table},
		Sessions:  sessions,
	}, config.Config{
		APIBasePath: "/api/v1",
		OTEL:        config.OTELConfig{ServiceName: "client-test"},
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/api/v1"
}

func mustClient(t *testing.T, base string, opts ...Option) *Client {
	t.Helper()
	c, err := New(base, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_ValidatesURL(t *testing.T) {
	for _, bad := range []string{"", "localhost:8080", "ftp://x/api", "http://[::1"} {
		if _, err := New(bad); err == nil {
			t.Fatalf("New(%q) should fail", bad)
		}
	}
	c := mustClient(t, " http://localhost:8080/api/v1/ ", WithToken(" tok "), WithHTTPClient(nil))
	if c.base.String() != "http://localhost:8080/api/v1" || c.Token() != "tok" || c.http == nil {
		t.Fatalf("client = %+v", c)
	}
}

func TestClient_RequiresToken(t *testing.T) {
	c := mustClient(t, "http://127.0.0.1:1/api/v1")
	if _, err := c.Today(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_AgainstServer(t *testing.T) {
	ctx := context.Background()
	c := mustClient(t, newServer(t))

	_, err := c.Login(ctx, "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.Unauthorized() || apiErr.Code != "unauthorized" || apiErr.RequestID == "" {
		t.Fatalf("bad login err = %#v", err)
	}
	if _, err := c.Login(ctx, "pw"); err != nil || c.Token() == "" {
		t.Fatalf("login: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Second)
	created, err := c.AddMeal(ctx, NewMeal{Timestamp: &at, Items: []nutrition.MealItem{{Ingredient: "rice", Quantity: 150}}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == "" || created.Macros.Kcal != 195 {
		t.Fatalf("created = %+v", created)
	}
	if _, err := c.AddMeal(ctx, NewMeal{Items: []nutrition.MealItem{{Ingredient: "unobtainium", Quantity: 10}}}); !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unresolved add err = %v", err)
	}

	all, err := c.AllMeals(ctx)
	if err != nil || len(all) != 1 || all[0].ID != created.ID {
		t.Fatalf("all = %+v, err = %v", all, err)
	}

	today, err := c.Day(ctx, at.Format("2006-01-02"))
	if err != nil || today.Count != 1 || today.Goals.Kcal != 2000 {
		t.Fatalf("day = %+v, err = %v", today, err)
	}
	if _, err := c.Day(ctx, "18/10/2026"); !errors.As(err, &apiErr) || apiErr.Code != "bad_request" {
		t.Fatalf("bad date err = %v", err)
	}
	month, err := c.Month(ctx, at.Format("2006-01"))
	if err != nil || month.Count != 1 {
		t.Fatalf("month = %+v, err = %v", month, err)
	}

	ings, err := c.Ingredients(ctx, "", 0)
	if err != nil || len(ings) != 10 {
		t.Fatalf("ingredients = %d, err = %v", len(ings), err)
	}
	ings, err = c.Ingredients(ctx, "brocoli", 1)
	if err != nil || len(ings) != 1 || ings[0].Key != "broccoli" {
		t.Fatalf("suggest = %+v, err = %v", ings, err)
	}
	if _, err := c.Lookup(ctx, "1 egg"); !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("lookup err = %v", err)
	}

	if err := c.DeleteMeal(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.DeleteMeal(ctx, created.ID); err != nil {
		t.Fatalf("second delete should succeed: %v", err)
	}
	if all, _ := c.AllMeals(ctx); len(all) != 0 {
		t.Fatalf("meals after delete = %d", len(all))
	}
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := mustClient(t, srv.URL, WithToken("t")).Ingredients(context.Background(), "", 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream down" {
		t.Fatalf("err = %#v", err)
	}
}

func TestTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")

	if tok, err := LoadToken(path); err != nil || tok != "" {
		t.Fatalf("missing file = %q, %v", tok, err)
	}
	if err := SaveToken(path, "abc.def"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if tok, err := LoadToken(path); err != nil || tok != "abc.def" {
		t.Fatalf("load = %q, %v", tok, err)
	}
	if err := ClearToken(path); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := ClearToken(path); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
}
