// Package nutrition is the macro engine of the application: the per-100g
// ingredient table, the ingredient resolver, the quantity scaler and the meal
// aggregator. It is deliberately free of I/O and logging so that it can be
// shared by the HTTP server and the CLI client.
//
// Rounding happens exactly once, at the outer aggregation boundary: grams are
// rounded to one decimal place and kilocalories to the nearest integer.
package nutrition

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrEmptyIngredient is returned when a meal item has a blank ingredient name.
	ErrEmptyIngredient = errors.New("ingredient name is empty")
	// ErrInvalidQuantity is returned when a meal item has a quantity <= 0.
	ErrInvalidQuantity = errors.New("quantity must be a positive number of grams")
)

// Macros holds macro-nutrient amounts in grams plus energy in kilocalories.
type Macros struct {
	Protein float64 `json:"protein" example:"62"`
	Carbs   float64 `json:"carbs"   example:"0"`
	Fiber   float64 `json:"fiber"   example:"0"`
	Fats    float64 `json:"fats"    example:"7.2"`
	Kcal    float64 `json:"kcal"    example:"330"`
}

// Add returns the component-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Protein: m.Protein + o.Protein,
		Carbs:   m.Carbs + o.Carbs,
		Fiber:   m.Fiber + o.Fiber,
		Fats:    m.Fats + o.Fats,
		Kcal:    m.Kcal + o.Kcal,
	}
}

// Rounded applies the display convention: one decimal for grams, whole kcal.
func (m Macros) Rounded() Macros {
	return Macros{
		Protein: round1(m.Protein),
		Carbs:   round1(m.Carbs),
		Fiber:   round1(m.Fiber),
		Fats:    round1(m.Fats),
		Kcal:    math.Round(m.Kcal),
	}
}

// IsZero reports whether every component is zero.
func (m Macros) IsZero() bool {
	return m == Macros{}
}

// Scale computes base * quantity/100 component-wise without rounding.
// quantity is expected to be > 0; validation is the caller's job.
func Scale(base Macros, quantity float64) Macros {
	f := quantity / 100
	return Macros{
		Protein: base.Protein * f,
		Carbs:   base.Carbs * f,
		Fiber:   base.Fiber * f,
		Fats:    base.Fats * f,
		Kcal:    base.Kcal * f,
	}
}

// SumRounded adds all values and rounds the total once.
func SumRounded(values []Macros) Macros {
	var total Macros
	for _, v := range values {
		total = total.Add(v)
	}
	return total.Rounded()
}

// MealItem is one ingredient line of a meal.
type MealItem struct {
	Ingredient string  `json:"ingredient" example:"chicken breast"`
	Quantity   float64 `json:"quantity"   example:"200"`
}

// Validate rejects blank ingredient names and non-positive quantities.
func (it MealItem) Validate() error {
	if strings.TrimSpace(it.Ingredient) == "" {
		return ErrEmptyIngredient
	}
	if !(it.Quantity > 0) || math.IsInf(it.Quantity, 0) {
		return ErrInvalidQuantity
	}
	return nil
}

// round1 rounds half away from zero to one decimal place. Adding a tiny
// epsilon keeps values such as 3.8499999999 (from 3.6 + 0.15 + ...) from
// falling on the wrong side of the .05 boundary due to binary representation.
func round1(v float64) float64 {
	return math.Round(v*10+math.Copysign(1e-9, v)) / 10
}
