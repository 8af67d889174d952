// Package calorieninjas is a small client for the CalorieNinjas nutrition API
// (https://calorieninjas.com/api). It turns free-text queries such as
// "200g chicken breast" into per-item nutrition facts and can act as a
// nutrition.Source for the meal aggregator.
package calorieninjas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/tbourn/nutritrack/internal/nutrition"
)

// DefaultBaseURL is the public API host.
const DefaultBaseURL = "https://api.calorieninjas.com"

// maxErrorBody caps how much of an error response is kept in APIError.
const maxErrorBody = 512

// ErrMissingAPIKey is returned by New when no key is supplied.
var ErrMissingAPIKey = errors.New("calorieninjas: api key is required")

// Item is one entry of a nutrition response. Only the fields the application
// uses are decoded.
type Item struct {
	Name         string  `json:"name"`
	ServingSizeG float64 `json:"serving_size_g"`
	ProteinG     float64 `json:"protein_g"`
	CarbsTotalG  float64 `json:"carbohydrates_total_g"`
	FiberG       float64 `json:"fiber_g"`
	FatTotalG    float64 `json:"fat_total_g"`
	Calories     float64 `json:"calories"`
}

// Macros maps the API item onto the application's macro type.
func (it Item) Macros() nutrition.Macros {
	return nutrition.Macros{
		Protein: it.ProteinG,
		Carbs:   it.CarbsTotalG,
		Fiber:   it.FiberG,
		Fats:    it.FatTotalG,
		Kcal:    it.Calories,
	}
}

// APIError reports a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calorieninjas: status %d: %s", e.StatusCode, e.Body)
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API host (tests point this at httptest servers).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRateLimit paces outbound requests to rps per second. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client calls the nutrition endpoint. It is safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New returns a client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type nutritionResponse struct {
	Items []Item `json:"items"`
}

// Lookup queries the API with free text and returns every item it recognized.
// An empty slice means nothing matched.
func (c *Client) Lookup(ctx context.Context, query string) ([]Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("calorieninjas: query is empty")
	}

	ctx, span := otel.Tracer("nutrition/calorieninjas").Start(ctx, "Lookup",
		trace.WithAttributes(attribute.String("query", query)),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	u := c.baseURL + "/v1/nutrition?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("calorieninjas: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("calorieninjas: request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		span.SetStatus(codes.Error, "non-2xx response")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out nutritionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("calorieninjas: decode response: %w", err)
	}
	if out.Items == nil {
		out.Items = []Item{}
	}
	span.SetAttributes(attribute.Int("items", len(out.Items)))
	return out.Items, nil
}

// Source adapts the client to nutrition.Source. Each meal item becomes a query
// of the form "<grams>g <ingredient>" and every returned entry is summed.
type Source struct {
	Client *Client
}

// Lookup implements nutrition.Source.
func (s Source) Lookup(ctx context.Context, item nutrition.MealItem) (nutrition.Macros, bool, error) {
	q := strconv.FormatFloat(item.Quantity, 'f', -1, 64) + "g " + strings.TrimSpace(item.Ingredient)
	items, err := s.Client.Lookup(ctx, q)
	if err != nil {
		return nutrition.Macros{}, false, err
	}
	if len(items) == 0 {
		return nutrition.Macros{}, false, nil
	}
	var total nutrition.Macros
	for _, it := range items {
		total = total.Add(it.Macros())
	}
	return total, true, nil
}
