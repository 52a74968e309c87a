// Package sqlite provides the local, single-file implementation of
// store.RecordStore on top of gorm and its SQLite driver.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// appRecord is the gorm model of one stored record.
type appRecord struct {
	Key       string `gorm:"column:record_key;primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (appRecord) TableName() string {
	return "app_records"
}

// slogWriter adapts gorm's logger output to slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn(fmt.Sprintf(format, args...))
}

// RecordStore implements store.RecordStore in a SQLite file.
type RecordStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ store.RecordStore = (*RecordStore)(nil)

// Open opens (creating if needed) the database file at path and migrates the
// schema. If logger is nil, the default logger is used.
func Open(path string, logger *slog.Logger) (*RecordStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "sqlite_record_store"))

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&appRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	return &RecordStore{db: db, logger: logger}, nil
}

// Get implements store.RecordStore.
func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec appRecord
	err := s.db.WithContext(ctx).First(&rec, "record_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, store.NewStoreError(key, "get", "query failed", err)
	}
	return []byte(rec.Value), nil
}

// PutAll implements store.RecordStore.
func (s *RecordStore) PutAll(ctx context.Context, records []store.Record) error {
	for _, r := range records {
		if r.Key == "" || !json.Valid(r.Value) {
			return fmt.Errorf("%w: %q", store.ErrInvalidRecord, r.Key)
		}
	}

	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range records {
			rec := appRecord{Key: r.Key, Value: string(r.Value), UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "record_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&rec).Error
			if err != nil {
				return fmt.Errorf("failed to write record %s: %w", r.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to write records", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrTransactionFailed, err)
	}

	return nil
}

// Close implements store.RecordStore.
func (s *RecordStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
