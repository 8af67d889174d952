// Package repo implements the data persistence layer for meal entries, backed
// by GORM. This file provides repository functions for the MealEntry model.
//
// All functions are context-aware and accept a *gorm.DB handle, so they can run
// inside transactions. They follow the "thin repository" approach: no business
// logic, only persistence and query composition.
//
// Error semantics:
//   - A missing meal yields ErrNotFound (alias of gorm.ErrRecordNotFound).
//   - Inserting an id that already exists yields ErrDuplicate.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/nutritrack/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a meal with the same id is already stored.
var ErrDuplicate = errors.New("duplicate")

// CreateMeal inserts e and its items in one transaction. The entry is
// normalized first so legacy single-item input is stored as an item row.
func CreateMeal(ctx context.Context, db *gorm.DB, e *domain.MealEntry) error {
	e.Normalize()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(e).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListMeals returns every stored meal with its items, ordered by timestamp
// then id.
func ListMeals(ctx context.Context, db *gorm.DB) ([]domain.MealEntry, error) {
	var out []domain.MealEntry
	err := withItems(db.WithContext(ctx)).
		Order("logged_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CountMeals returns the number of stored meals.
func CountMeals(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.MealEntry{}).Count(&total).Error
	return total, err
}

// ListMealsPage returns a page of meals, newest first.
func ListMealsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.MealEntry, error) {
	var out []domain.MealEntry
	err := withItems(db.WithContext(ctx)).
		Order("logged_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetMeal fetches one meal by id, or ErrNotFound.
func GetMeal(ctx context.Context, db *gorm.DB, id string) (*domain.MealEntry, error) {
	var m domain.MealEntry
	if err := withItems(db.WithContext(ctx)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMeal removes a meal and its items. Deleting an unknown id is not an
// error. Items are removed explicitly so the result does not depend on the
// backend enforcing foreign keys.
func DeleteMeal(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", id).Delete(&domain.MealItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.MealEntry{}).Error
	})
}

func withItems(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// glebarez/sqlite and pgx report unique violations as plain text.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value")
}
