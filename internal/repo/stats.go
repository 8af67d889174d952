// Package repo implements the data persistence layer for meal entries, backed
// by GORM. This file provides small aggregate queries used for conditional
// responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/nutritrack/internal/domain"
)

// MealsStats returns the number of stored meals and the greatest RecordedAt
// among them. With no rows the count is 0 and latest is nil.
func MealsStats(ctx context.Context, db *gorm.DB) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.MealEntry{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// ORDER BY keeps the column type; SQLite returns MAX() as TEXT.
	var row struct {
		RecordedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.MealEntry{}).
		Select("recorded_at").Order("recorded_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.RecordedAt, nil
}
