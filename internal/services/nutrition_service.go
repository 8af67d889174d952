package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/nutrition/calorieninjas"
)

// Lookuper is the nutrition lookup collaborator.
type Lookuper interface {
	Lookup(ctx context.Context, query string) ([]calorieninjas.Item, error)
}

// LookupResult is the raw lookup response plus its rounded total.
type LookupResult struct {
	Query string               `json:"query" example:"200g chicken breast"`
	Items []calorieninjas.Item `json:"items"`
	Total nutrition.Macros     `json:"total"`
}

// NutritionService serves free-text nutrition lookups and the static
// ingredient table.
type NutritionService struct {
	// Client is nil when no API key is configured.
	Client Lookuper
	Table  *nutrition.Table
}

// Lookup forwards query to the lookup API. Results are not cached.
func (s *NutritionService) Lookup(ctx context.Context, query string) (*LookupResult, error) {
	tr := otel.Tracer("services/NutritionService")
	ctx, span := tr.Start(ctx, "Lookup", trace.WithAttributes(attribute.Int("query.len", len(query))))
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.Client == nil {
		lookups.WithLabelValues("unavailable").Inc()
		return nil, ErrLookupUnavailable
	}

	items, err := s.Client.Lookup(ctx, query)
	if err != nil {
		span.RecordError(err)
		lookups.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(items) == 0 {
		lookups.WithLabelValues("empty").Inc()
	} else {
		lookups.WithLabelValues("ok").Inc()
	}

	ms := make([]nutrition.Macros, 0, len(items))
	for _, it := range items {
		ms = append(ms, it.Macros())
	}
	return &LookupResult{Query: query, Items: items, Total: nutrition.SumRounded(ms)}, nil
}

// Ingredients returns the built-in ingredient table in resolution order.
// A non-blank query narrows it to the limit closest spellings instead.
func (s *NutritionService) Ingredients(query string, limit int) []nutrition.Ingredient {
	if s.Table == nil {
		return []nutrition.Ingredient{}
	}
	if strings.TrimSpace(query) == "" {
		return s.Table.Rows()
	}
	rows := s.Table.Suggest(query, limit)
	if rows == nil {
		return []nutrition.Ingredient{}
	}
	return rows
}
