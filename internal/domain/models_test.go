package domain

import (
	"encoding/json"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/nutritrack/internal/nutrition"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection so the per-connection PRAGMA applies to every statement.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	if (MealEntry{}).TableName() != "meals" {
		t.Fatalf("MealEntry.TableName() = %q; want %q", (MealEntry{}).TableName(), "meals")
	}
	if (MealItem{}).TableName() != "meal_items" {
		t.Fatalf("MealItem.TableName() = %q; want %q", (MealItem{}).TableName(), "meal_items")
	}
}

func TestMigrations_EmbeddedMacros_AndCascade(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&MealEntry{}, &MealItem{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, col := range []string{"macro_protein", "macro_carbs", "macro_fiber", "macro_fats", "macro_kcal"} {
		if !m.HasColumn(&MealEntry{}, col) {
			t.Fatalf("expected embedded column %q on meals", col)
		}
	}
	if m.HasColumn(&MealEntry{}, "ingredient") {
		t.Fatalf("legacy ingredient field must not be persisted")
	}
	if !m.HasIndex(&MealItem{}, "idx_meal_items") {
		t.Fatalf("expected index idx_meal_items on meal_items")
	}

	now := time.Now().UTC()
	e := NewMealEntry("m1", now, []nutrition.MealItem{
		{Ingredient: "rice", Quantity: 50},
		{Ingredient: "chicken", Quantity: 100},
	}, nutrition.Macros{Kcal: 230, Protein: 32.4})
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("insert meal: %v", err)
	}

	var got MealEntry
	if err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		First(&got, "id = ?", "m1").Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Ingredient != "rice" || got.Items[1].Quantity != 100 {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if got.Macros.Kcal != 230 || got.Macros.Protein != 32.4 {
		t.Fatalf("unexpected macros: %+v", got.Macros)
	}

	// CASCADE: deleting the meal removes its items.
	if err := db.Delete(&MealEntry{}, "id = ?", "m1").Error; err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	var cnt int64
	if err := db.Model(&MealItem{}).Where("meal_id = ?", "m1").Count(&cnt).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected items to cascade-delete, got %d", cnt)
	}
}

func TestNormalize_LegacySingleItem(t *testing.T) {
	var e MealEntry
	raw := `{"id":"abc","timestamp":"2026-10-18T08:30:00.000Z","ingredient":"Chicken breast","quantity":200,
	         "macros":{"protein":62,"carbs":0,"fiber":0,"fats":7.2,"kcal":330}}`
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	e.Normalize()
	if len(e.Items) != 1 || e.Items[0].Ingredient != "Chicken breast" || e.Items[0].Quantity != 200 {
		t.Fatalf("legacy fields not folded: %+v", e.Items)
	}
	if e.Items[0].MealID != "abc" || e.Ingredient != "" || e.Quantity != 0 {
		t.Fatalf("normalize should link items and clear legacy fields: %+v", e)
	}

	// Idempotent.
	e.Normalize()
	if len(e.Items) != 1 {
		t.Fatalf("second Normalize changed items: %+v", e.Items)
	}

	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var shape map[string]any
	_ = json.Unmarshal(out, &shape)
	if _, ok := shape["ingredient"]; ok {
		t.Fatalf("legacy field should be omitted after normalize: %s", out)
	}
	items, _ := shape["items"].([]any)
	first, _ := items[0].(map[string]any)
	if first["ingredient"] != "Chicken breast" || first["quantity"] != float64(200) {
		t.Fatalf("item JSON should be flat {ingredient,quantity}: %s", out)
	}
}

func TestNormalize_ItemsWinOverLegacy(t *testing.T) {
	e := MealEntry{
		ID:         "x",
		Ingredient: "egg",
		Quantity:   50,
		Items:      []MealItem{{MealItem: nutrition.MealItem{Ingredient: "rice", Quantity: 10}}},
	}
	e.Normalize()
	if len(e.Items) != 1 || e.Items[0].Ingredient != "rice" {
		t.Fatalf("items should take precedence: %+v", e.Items)
	}
	if got := e.MealItems(); len(got) != 1 || got[0] != (nutrition.MealItem{Ingredient: "rice", Quantity: 10}) {
		t.Fatalf("MealItems = %+v", got)
	}
}
