// Package gormdb implements catalog.Catalog on top of GORM, backed by SQLite
// (single node) or PostgreSQL (shared between nodes).
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/storageid"
)

// StorageRecord is the persisted form of a catalog entry.
type StorageRecord struct {
	NumericID int64     `gorm:"column:numeric_id;primaryKey;autoIncrement"`
	StorageID string    `gorm:"column:storage_id;size:64;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the table name for GORM.
func (StorageRecord) TableName() string {
	return "storages"
}

const migrationTimeout = 30 * time.Second

// Store implements catalog.Catalog using GORM.
type Store struct {
	db     *gorm.DB
	config *Config

	// registerMu serializes allocation within this process; the unique index
	// covers other processes.
	registerMu sync.Mutex
}

var _ catalog.Catalog = (*Store)(nil)

// New opens the catalog database described by config and migrates its schema.
func New(config *Config) (*Store, error) {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog database configuration: %w", err)
	}

	var dialector gorm.Dialector
	switch config.Type {
	case DatabaseTypeSQLite:
		if err := os.MkdirAll(filepath.Dir(config.SQLite.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// WAL for concurrent readers, busy_timeout so writers wait instead of failing.
		dsn := config.SQLite.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		dialector = sqlite.Open(dsn)

	case DatabaseTypePostgres:
		dialector = postgres.Open(config.Postgres.DSN())

	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.Type == DatabaseTypePostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		sqlDB.SetMaxOpenConns(config.Postgres.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.Postgres.MaxIdleConns)
	}

	// PostgreSQL catalogs may be shared, so their schema is versioned by
	// golang-migrate. SQLite is single node and lets GORM create the table.
	if config.Type == DatabaseTypePostgres {
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()
		if err := runPostgresMigrations(ctx, &config.Postgres); err != nil {
			_ = closeDB(db)
			return nil, fmt.Errorf("failed to run database migration: %w", err)
		}
	} else if err := db.AutoMigrate(&StorageRecord{}); err != nil {
		_ = closeDB(db)
		return nil, fmt.Errorf("failed to run database migration: %w", err)
	}

	logger.Debug("Storage catalog opened",
		logger.KeyCatalog, string(config.Type),
		logger.KeyDSN, config.location())

	return &Store{db: db, config: config}, nil
}

// DB returns the underlying GORM database connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Register implements catalog.Catalog.
func (s *Store) Register(ctx context.Context, storageID string) (int64, error) {
	if storageID == "" {
		return 0, catalog.ErrInvalidStorageID
	}
	storageID = storageid.Shorten(storageID)

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	id, err := s.NumericID(ctx, storageID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, catalog.ErrStorageNotFound) {
		return 0, err
	}

	record := &StorageRecord{StorageID: storageID, CreatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Another process registered it first.
			return s.NumericID(ctx, storageID)
		}
		return 0, err
	}

	logger.Debug("Storage registered in catalog",
		logger.KeyStorageID, storageID,
		logger.KeyNumericID, record.NumericID)
	return record.NumericID, nil
}

// StorageID implements catalog.Catalog.
func (s *Store) StorageID(ctx context.Context, numericID int64) (string, error) {
	var record StorageRecord
	if err := s.db.WithContext(ctx).Where("numeric_id = ?", numericID).First(&record).Error; err != nil {
		return "", fmt.Errorf("numeric id %d: %w", numericID, convertNotFoundError(err))
	}
	return record.StorageID, nil
}

// NumericID implements catalog.Catalog.
func (s *Store) NumericID(ctx context.Context, storageID string) (int64, error) {
	storageID = storageid.Shorten(storageID)

	var record StorageRecord
	if err := s.db.WithContext(ctx).Where("storage_id = ?", storageID).First(&record).Error; err != nil {
		return 0, fmt.Errorf("storage %q: %w", storageID, convertNotFoundError(err))
	}
	return record.NumericID, nil
}

// Remove implements catalog.Catalog.
func (s *Store) Remove(ctx context.Context, storageID string) error {
	storageID = storageid.Shorten(storageID)

	result := s.db.WithContext(ctx).Where("storage_id = ?", storageID).Delete(&StorageRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("storage %q: %w", storageID, catalog.ErrStorageNotFound)
	}
	return nil
}

// List implements catalog.Catalog.
func (s *Store) List(ctx context.Context) ([]catalog.Entry, error) {
	var records []StorageRecord
	if err := s.db.WithContext(ctx).Order("numeric_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	entries := make([]catalog.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, catalog.Entry{NumericID: r.NumericID, StorageID: r.StorageID})
	}
	return entries, nil
}

// Close implements catalog.Catalog.
func (s *Store) Close() error {
	return closeDB(s.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isUniqueConstraintError checks if the error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "duplicate key value violates unique constraint")
}

// convertNotFoundError maps gorm.ErrRecordNotFound to catalog.ErrStorageNotFound.
func convertNotFoundError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.ErrStorageNotFound
	}
	return err
}
