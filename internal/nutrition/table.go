package nutrition

import (
	"context"
	"strings"

	"github.com/tbourn/nutritrack/internal/search"
)

// Ingredient is one row of the lookup table: a canonical key and its macros
// per 100 g.
type Ingredient struct {
	Key        string `json:"key"         example:"chicken"`
	PerHundred Macros `json:"per_100g"`
}

// Table is an ordered, read-only ingredient table. Order is significant: the
// resolver returns the first matching row.
type Table struct {
	rows  []Ingredient
	index *search.Index
}

// NewTable builds a table from rows, keeping their order. Keys are lowercased
// and trimmed so they compare against normalized input.
func NewTable(rows []Ingredient) *Table {
	out := make([]Ingredient, 0, len(rows))
	for _, r := range rows {
		r.Key = normalize(r.Key)
		if r.Key == "" {
			continue
		}
		out = append(out, r)
	}
	keys := make([]string, len(out))
	for i, r := range out {
		keys[i] = r.Key
	}
	return &Table{rows: out, index: search.New(keys, search.WithStopwords(prepWords))}
}

// prepWords describe preparation, not the ingredient, and are ignored when
// ranking suggestions.
var prepWords = []string{"raw", "fresh", "cooked", "boiled", "grilled", "fried", "baked", "steamed", "roasted", "sliced", "chopped", "of", "and", "with"}

// DefaultTable returns the built-in ingredient table.
func DefaultTable() *Table {
	return NewTable([]Ingredient{
		{Key: "chicken", PerHundred: Macros{Kcal: 165, Protein: 31, Carbs: 0, Fats: 3.6, Fiber: 0}},
		{Key: "rice", PerHundred: Macros{Kcal: 130, Protein: 2.7, Carbs: 28, Fats: 0.3, Fiber: 0.4}},
		{Key: "broccoli", PerHundred: Macros{Kcal: 34, Protein: 2.8, Carbs: 6.6, Fats: 0.4, Fiber: 2.6}},
		{Key: "egg", PerHundred: Macros{Kcal: 155, Protein: 13, Carbs: 1.1, Fats: 11, Fiber: 0}},
		{Key: "avocado", PerHundred: Macros{Kcal: 160, Protein: 2, Carbs: 8.5, Fats: 15, Fiber: 6.7}},
		{Key: "oats", PerHundred: Macros{Kcal: 389, Protein: 16.9, Carbs: 66.3, Fats: 6.9, Fiber: 10.6}},
		{Key: "salmon", PerHundred: Macros{Kcal: 208, Protein: 20, Carbs: 0, Fats: 13, Fiber: 0}},
		{Key: "almonds", PerHundred: Macros{Kcal: 579, Protein: 21, Carbs: 22, Fats: 50, Fiber: 12.5}},
		{Key: "apple", PerHundred: Macros{Kcal: 52, Protein: 0.3, Carbs: 14, Fats: 0.2, Fiber: 2.4}},
		{Key: "beef", PerHundred: Macros{Kcal: 250, Protein: 26, Carbs: 0, Fats: 15, Fiber: 0}},
	})
}

// Rows returns a copy of the table rows in declaration order.
func (t *Table) Rows() []Ingredient {
	out := make([]Ingredient, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len reports the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Resolve finds the first row whose key is contained in the normalized name,
// or whose key contains it. Overlapping keys resolve by table order, not by
// specificity.
func (t *Table) Resolve(name string) (Ingredient, bool) {
	n := normalize(name)
	if n == "" {
		return Ingredient{}, false
	}
	for _, r := range t.rows {
		if strings.Contains(n, r.Key) || strings.Contains(r.Key, n) {
			return r, true
		}
	}
	return Ingredient{}, false
}

// Lookup implements Source: it resolves the item and scales its macros.
// The table never fails, so the error is always nil.
func (t *Table) Lookup(_ context.Context, item MealItem) (Macros, bool, error) {
	ing, ok := t.Resolve(item.Ingredient)
	if !ok {
		return Macros{}, false, nil
	}
	return Scale(ing.PerHundred, item.Quantity), true, nil
}

// Suggest ranks table rows by spelling similarity to name, best first, for
// "did you mean" hints. It returns at most k rows; k <= 0 means 3.
func (t *Table) Suggest(name string, k int) []Ingredient {
	if t.index == nil {
		return nil
	}
	res := t.index.TopK(name, k)
	out := make([]Ingredient, 0, len(res))
	for _, r := range res {
		out = append(out, t.rows[r.Pos])
	}
	return out
}

// Aggregate is the pure, table-only form of the package-level Aggregate.
func (t *Table) Aggregate(items []MealItem) Macros {
	m, _ := Aggregate(context.Background(), t, items)
	return m
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
