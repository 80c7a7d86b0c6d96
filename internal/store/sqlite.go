package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/i474232898/station-data-api/internal/observation"
)

// SQLiteStore is the durable, append-only observation store. Records are
// keyed by identifier with a secondary index on the cache fingerprint;
// nothing is ever updated or deleted.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database at path, creating the parent
// directory if needed, and migrates the records table.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&observation.Record{}); err != nil {
		return nil, fmt.Errorf("migrate records table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ByCacheKey returns all records persisted for a query fingerprint, possibly
// none.
func (s *SQLiteStore) ByCacheKey(ctx context.Context, cacheKey string) ([]observation.Record, error) {
	var records []observation.Record
	err := s.db.WithContext(ctx).
		Where("cache_key = ?", cacheKey).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Save appends a batch of records. It does not deduplicate: single writer per
// fingerprint is assumed, not enforced.
func (s *SQLiteStore) Save(ctx context.Context, records []observation.Record) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&records).Error
}

// Count returns the total number of persisted records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&observation.Record{}).Count(&n).Error
	return n, err
}
