// Package services defines the use cases for logging meals, reading the
// daily and monthly rollups, and looking up nutrition data. This file
// centralizes service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Meal-related errors.
var (
	// ErrNoItems is returned when a meal is submitted without ingredient lines.
	ErrNoItems = errors.New("meal has no items")

	// ErrInvalidItem wraps a per-item validation failure (empty ingredient,
	// non-positive quantity).
	ErrInvalidItem = errors.New("invalid meal item")

	// ErrInvalidID is returned when a client-supplied meal id is malformed.
	ErrInvalidID = errors.New("invalid meal id")

	// ErrNothingResolved is returned when none of the submitted ingredients
	// could be resolved, so the meal would total zero.
	ErrNothingResolved = errors.New("ingredient not found")

	// ErrDuplicateMeal is returned when a meal with the same id already exists.
	ErrDuplicateMeal = errors.New("meal already exists")

	// ErrInvalidDate is returned when a day or month parameter cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// Nutrition lookup errors.
var (
	// ErrEmptyQuery is returned when a lookup is requested without a query.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrLookupUnavailable is returned when no lookup API is configured.
	ErrLookupUnavailable = errors.New("nutrition lookup is not configured")
)
