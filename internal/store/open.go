package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/nutritrack/internal/config"
	"github.com/tbourn/nutritrack/internal/repo"
)

// Open builds the Store selected by cfg.Backend. The returned close func
// releases backend resources and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendSQLite, "":
		db, err := repo.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite: %w", err)
		}
		return migrated(db)

	case config.BackendPostgres:
		db, err := repo.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		return migrated(db)

	case config.BackendJSON:
		s, err := NewJSONFile(cfg.HistoryPath)
		if err != nil {
			return nil, noop, fmt.Errorf("open json history: %w", err)
		}
		return s, noop, nil

	case config.BackendFirebase:
		s, err := DialFirebase(ctx, cfg.FirebaseDatabaseURL, cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

func migrated(db *gorm.DB) (Store, func() error, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, func() error { return nil }, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, func() error { return nil }, fmt.Errorf("migrate: %w", err)
	}
	return NewSQL(db), sqlDB.Close, nil
}
