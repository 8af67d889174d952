// Package client is the Go client for the nutritrack HTTP API used by the
// CLI. It authenticates with the bearer session token issued at login.
package client

import (
	"bytes"
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

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/services"
)

const maxErrorBody = 64 << 10

// ErrNotLoggedIn is returned by calls that need a session when no token is set.
var ErrNotLoggedIn = errors.New("not logged in; run `nutritrack login` first")

// APIError is a non-2xx answer carrying the server's error envelope.
type APIError struct {
	StatusCode int
	RequestID  string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
}

// Unauthorized reports whether the session was missing, expired or rejected.
func (e *APIError) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithToken sets the session token sent as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// Client talks to one server. Not safe for concurrent Login calls.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

// New builds a client for baseURL, which includes the API base path
// (e.g. http://localhost:8080/api/v1).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: 30 * time.Second}}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Token returns the current session token.
func (c *Client) Token() string { return c.token }

// NewMeal is a meal submission. ID and Timestamp are optional.
type NewMeal struct {
	ID        string               `json:"id,omitempty"`
	Timestamp *time.Time           `json:"timestamp,omitempty"`
	Items     []nutrition.MealItem `json:"items"`
}

// MealPage is one page of GET /meals.
type MealPage struct {
	Meals      []domain.MealEntry `json:"meals"`
	Pagination struct {
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
		HasNext    bool  `json:"has_next"`
	} `json:"pagination"`
}

// Login exchanges the shared password for a session token and keeps it.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var out struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{"password": password}, &out, false); err != nil {
		return "", err
	}
	if !out.Success || out.Token == "" {
		return "", errors.New("login: server returned no token")
	}
	c.token = out.Token
	return out.Token, nil
}

// Meals fetches one page of the history.
func (c *Client) Meals(ctx context.Context, page, pageSize int) (*MealPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	var out MealPage
	if err := c.do(ctx, http.MethodGet, "/meals", q, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllMeals walks every page and returns the full history.
func (c *Client) AllMeals(ctx context.Context) ([]domain.MealEntry, error) {
	var all []domain.MealEntry
	for page := 1; ; page++ {
		p, err := c.Meals(ctx, page, 100)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Meals...)
		if !p.Pagination.HasNext || len(p.Meals) == 0 {
			return all, nil
		}
	}
}

// AddMeal logs a meal and returns the stored entry.
func (c *Client) AddMeal(ctx context.Context, in NewMeal) (*domain.MealEntry, error) {
	var out domain.MealEntry
	if err := c.do(ctx, http.MethodPost, "/meals", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeal removes a meal. Unknown ids succeed.
func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/meals/"+url.PathEscape(id), nil, nil, nil, true)
}

// Today returns the report for the server's current day.
func (c *Client) Today(ctx context.Context) (*services.DayReport, error) {
	var out services.DayReport
	if err := c.do(ctx, http.MethodGet, "/days/today", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Day returns the report for date (YYYY-MM-DD).
func (c *Client) Day(ctx context.Context, date string) (*services.DayReport, error) {
	var out services.DayReport
	if err := c.do(ctx, http.MethodGet, "/days/"+url.PathEscape(date), nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Month returns the calendar for month (YYYY-MM); empty means the current one.
func (c *Client) Month(ctx context.Context, month string) (*services.MonthReport, error) {
	var q url.Values
	if month != "" {
		q = url.Values{"month": {month}}
	}
	var out services.MonthReport
	if err := c.do(ctx, http.MethodGet, "/calendar", q, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lookup runs a free-text nutrition query on the server.
func (c *Client) Lookup(ctx context.Context, query string) (*services.LookupResult, error) {
	var out services.LookupResult
	if err := c.do(ctx, http.MethodGet, "/nutrition", url.Values{"query": {query}}, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ingredients returns the server's ingredient table, or with a non-blank
// query up to limit rows closest to it in spelling.
func (c *Client) Ingredients(ctx context.Context, query string, limit int) ([]nutrition.Ingredient, error) {
	q := url.Values{}
	if strings.TrimSpace(query) != "" {
		q.Set("q", query)
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
	}
	var out []nutrition.Ingredient
	if err := c.do(ctx, http.MethodGet, "/ingredients", q, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any, authed bool) error {
	if authed && c.token == "" {
		return ErrNotLoggedIn
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: resp.Header.Get("X-Request-ID")}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env struct {
		RequestID string `json:"request_id"`
		Code      string `json:"code"`
		Message   string `json:"message"`
	}
	if json.Unmarshal(raw, &env) == nil && env.Code != "" {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
		if env.RequestID != "" {
			apiErr.RequestID = env.RequestID
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}
