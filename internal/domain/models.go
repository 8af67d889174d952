// Package domain defines the persistence models for logged meals. These types
// are mapped with GORM for the SQL backends and serialized as JSON for the
// flat-file and Firebase backends, so the JSON shape is also the wire shape
// of the public API.
package domain

import (
	"strings"
	"time"

	"github.com/tbourn/nutritrack/internal/nutrition"
)

// MealEntry is one logged consumption event. It is created once (id and
// timestamp assigned at submission), optionally deleted by id, and never
// updated in place.
//
// Fields:
//   - ID: unique token chosen at creation; the only identity used for deletion.
//   - Timestamp: creation instant, stored in UTC.
//   - Items: ordered ingredient lines (child table meal_items, deleted with
//     the entry by the foreign key).
//   - Macros: rounded totals computed when the entry was created.
//   - Ingredient / Quantity: legacy single-item form accepted on input and
//     folded into Items by Normalize. Never persisted by the SQL backends.
type MealEntry struct {
	ID        string           `json:"id"        gorm:"type:varchar(64);primaryKey"`
	Timestamp time.Time        `json:"timestamp" gorm:"column:logged_at;not null;index:idx_meals_logged_at"`
	Items     []MealItem       `json:"items"     gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Macros    nutrition.Macros `json:"macros"    gorm:"embedded;embeddedPrefix:macro_"`

	// RecordedAt is the server write time. Timestamp can be backdated by the
	// client, so conditional reads key on this instead.
	RecordedAt time.Time `json:"recorded_at" gorm:"column:recorded_at;index:idx_meals_recorded_at"`

	Ingredient string  `json:"ingredient,omitempty" gorm:"-"`
	Quantity   float64 `json:"quantity,omitempty"   gorm:"-"`
}

// TableName returns the database table name for MealEntry.
func (MealEntry) TableName() string { return "meals" }

// MealItem is one ingredient line of a MealEntry. Position keeps the
// submission order stable across backends.
type MealItem struct {
	ID       uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	MealID   string `json:"-" gorm:"type:varchar(64);not null;index:idx_meal_items,priority:1"`
	Position int    `json:"-" gorm:"not null;default:0;index:idx_meal_items,priority:2"`

	nutrition.MealItem
}

// TableName returns the database table name for MealItem.
func (MealItem) TableName() string { return "meal_items" }

// NewMealEntry builds an entry from plain items. Positions are assigned in
// order and the timestamp is normalized to UTC.
func NewMealEntry(id string, ts time.Time, items []nutrition.MealItem, m nutrition.Macros) MealEntry {
	e := MealEntry{ID: id, Timestamp: ts.UTC(), Macros: m}
	e.Items = make([]MealItem, 0, len(items))
	for i, it := range items {
		e.Items = append(e.Items, MealItem{MealID: id, Position: i, MealItem: it})
	}
	return e
}

// Normalize folds the legacy single-item fields into Items when Items is
// empty, clears them, and renumbers item positions. It is safe to call more
// than once.
func (e *MealEntry) Normalize() {
	if len(e.Items) == 0 && strings.TrimSpace(e.Ingredient) != "" {
		e.Items = []MealItem{{MealItem: nutrition.MealItem{Ingredient: e.Ingredient, Quantity: e.Quantity}}}
	}
	e.Ingredient = ""
	e.Quantity = 0
	for i := range e.Items {
		e.Items[i].MealID = e.ID
		e.Items[i].Position = i
	}
}

// MealItems returns the plain ingredient lines in order.
func (e MealEntry) MealItems() []nutrition.MealItem {
	out := make([]nutrition.MealItem, 0, len(e.Items))
	for _, it := range e.Items {
		out = append(out, it.MealItem)
	}
	return out
}
