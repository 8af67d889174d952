package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
	"github.com/tbourn/nutritrack/internal/repo"
)

// SQL adapts the GORM repository functions to Store. It serves both the
// SQLite and PostgreSQL backends.
type SQL struct {
	db *gorm.DB
}

// NewSQL returns a Store over db. The schema must already be migrated.
func NewSQL(db *gorm.DB) *SQL { return &SQL{db: db} }

func (s *SQL) List(ctx context.Context) (history.History, error) {
	rows, err := repo.ListMeals(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return history.History(rows), nil
}

func (s *SQL) Append(ctx context.Context, e domain.MealEntry) error {
	err := repo.CreateMeal(ctx, s.db, &e)
	if errors.Is(err, repo.ErrDuplicate) {
		return ErrDuplicate
	}
	return err
}

func (s *SQL) Remove(ctx context.Context, id string) error {
	return repo.DeleteMeal(ctx, s.db, id)
}

func (s *SQL) Stats(ctx context.Context) (int64, *time.Time, error) {
	return repo.MealsStats(ctx, s.db)
}

// Page returns a newest-first slice of the history plus the total count.
func (s *SQL) Page(ctx context.Context, offset, limit int) (history.History, int64, error) {
	total, err := repo.CountMeals(ctx, s.db)
	if err != nil {
		return nil, 0, err
	}
	rows, err := repo.ListMealsPage(ctx, s.db, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return history.History(rows), total, nil
}
