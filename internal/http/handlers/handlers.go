package handlers

import (
	"context"
	"time"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/services"
)

// MealService is the meal log as seen by the HTTP layer.
// *services.MealService satisfies it.
type MealService interface {
	Add(ctx context.Context, in services.AddMealInput) (*domain.MealEntry, error)
	Delete(ctx context.Context, id string) error
	ListPage(ctx context.Context, page, pageSize int) (history.History, int64, error)
	// Stats feeds the list ETag.
	Stats(ctx context.Context) (int64, *time.Time, error)
	Today(ctx context.Context) (*services.DayReport, error)
	Day(ctx context.Context, date string) (*services.DayReport, error)
	Month(ctx context.Context, month string) (*services.MonthReport, error)
}

// NutritionService serves lookups and the ingredient table.
// *services.NutritionService satisfies it.
type NutritionService interface {
	Lookup(ctx context.Context, query string) (*services.LookupResult, error)
	Ingredients(query string, limit int) []nutrition.Ingredient
}

// SessionIssuer exchanges the app password for a session token.
// *auth.Sessions satisfies it.
type SessionIssuer interface {
	Login(given string, now time.Time) (string, error)
	TTL() time.Duration
}

// CookieOptions controls the session cookie attributes.
type CookieOptions struct {
	Name   string
	Secure bool
}

// Handlers groups the API endpoints.
type Handlers struct {
	meals    MealService
	nutri    NutritionService
	sessions SessionIssuer
	cookie   CookieOptions

	now func() time.Time
}

// New binds the endpoints to their services.
func New(meals MealService, nutri NutritionService, sessions SessionIssuer, cookie CookieOptions) *Handlers {
	return &Handlers{
		meals:    meals,
		nutri:    nutri,
		sessions: sessions,
		cookie:   cookie,
		now:      time.Now,
	}
}
