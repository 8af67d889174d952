package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/nutritrack/internal/auth"
	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
	"github.com/tbourn/nutritrack/internal/http/middleware"
	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/nutrition/calorieninjas"
	"github.com/tbourn/nutritrack/internal/repo"
	"github.com/tbourn/nutritrack/internal/services"
	"github.com/tbourn/nutritrack/internal/store"
)

var fixedNow = time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

// ---------- real services over in-memory sqlite ----------

func newMealService(t *testing.T) *services.MealService {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
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

	svc := services.NewMealService(store.NewSQL(db), nutrition.DefaultTable(), time.UTC, nutrition.DefaultGoals())
	svc.Now = func() time.Time { return fixedNow }
	n := 0
	svc.NewID = func() string { n++; return fmt.Sprintf("meal-%d", n) }
	return svc
}

// ---------- fakes ----------

type fakeSessions struct{ err error }

func (f fakeSessions) Login(given string, _ time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if given != "pw" {
		return "", auth.ErrInvalidPassword
	}
	return "tok-123", nil
}

func (fakeSessions) TTL() time.Duration { return auth.DefaultTTL }

type fakeLookuper struct {
	items []calorieninjas.Item
	err   error
}

func (f fakeLookuper) Lookup(context.Context, string) ([]calorieninjas.Item, error) {
	return f.items, f.err
}

// stubMeals lets error paths be driven directly.
type stubMeals struct {
	addErr   error
	delErr   error
	listErr  error
	statsErr error
	dayErr   error
}

func (s stubMeals) Add(context.Context, services.AddMealInput) (*domain.MealEntry, error) {
	return nil, s.addErr
}
func (s stubMeals) Delete(context.Context, string) error { return s.delErr }
func (s stubMeals) ListPage(context.Context, int, int) (history.History, int64, error) {
	return nil, 0, s.listErr
}
func (s stubMeals) Stats(context.Context) (int64, *time.Time, error)   { return 0, nil, s.statsErr }
func (s stubMeals) Today(context.Context) (*services.DayReport, error) { return nil, s.dayErr }
func (s stubMeals) Day(context.Context, string) (*services.DayReport, error) {
	return nil, s.dayErr
}
func (s stubMeals) Month(context.Context, string) (*services.MonthReport, error) {
	return nil, s.dayErr
}

// ---------- harness ----------

func newEngine(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/meals", h.ListMeals)
	r.POST("/meals", h.CreateMeal)
	r.DELETE("/meals/:id", h.DeleteMeal)
	r.GET("/days/today", h.Today)
	r.GET("/days/:date", h.Day)
	r.GET("/calendar", h.Calendar)
	r.GET("/nutrition", h.LookupNutrition)
	r.GET("/ingredients", h.ListIngredients)
	return r
}

func newTestHandlers(t *testing.T, lk services.Lookuper) (*Handlers, *gin.Engine) {
	t.Helper()
	nutri := &services.NutritionService{Client: lk, Table: nutrition.DefaultTable()}
	h := New(newMealService(t), nutri, fakeSessions{}, CookieOptions{Name: auth.CookieName})
	return h, newEngine(h)
}

func do(r http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body %s)", v, err, w.Body.String())
	}
	return v
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d; want %d (body %s)", w.Code, status, w.Body.String())
	}
	er := decode[ErrorResponse](t, w)
	if er.Code != code || er.RequestID == "" {
		t.Fatalf("error body = %+v; want code %q", er, code)
	}
	return er
}
