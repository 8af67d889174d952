package nutrition

import "context"

// Source resolves a meal item to its (unrounded) macros. ok is false when the
// ingredient is unknown; err is reserved for collaborator failures such as an
// unreachable remote API.
type Source interface {
	Lookup(ctx context.Context, item MealItem) (m Macros, ok bool, err error)
}

// Aggregate resolves every item through src, sums what resolved and rounds the
// total once. Unresolved items contribute zero and raise no error, so an
// all-zero result can mean either a zero-calorie meal or that nothing
// resolved. Callers treat it as the latter.
//
// The first collaborator error aborts aggregation and is returned unchanged.
func Aggregate(ctx context.Context, src Source, items []MealItem) (Macros, error) {
	var total Macros
	for _, it := range items {
		m, ok, err := src.Lookup(ctx, it)
		if err != nil {
			return Macros{}, err
		}
		if !ok {
			continue
		}
		total = total.Add(m)
	}
	return total.Rounded(), nil
}
