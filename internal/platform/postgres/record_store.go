package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lusolearn/lusolearn-api/internal/store"
)

const (
	getRecordQuery    = `SELECT value FROM app_records WHERE key = $1`
	upsertRecordQuery = `INSERT INTO app_records (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// RecordStore implements store.RecordStore on the app_records table.
type RecordStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates a RecordStore on an open connection pool.
// If logger is nil, the default logger is used.
func NewRecordStore(db *sql.DB, logger *slog.Logger) *RecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_record_store")),
	}
}

// Get implements store.RecordStore.
func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, getRecordQuery, key).Scan(&value)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "failed to read record",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return value, nil
}

// PutAll implements store.RecordStore. All records are upserted in one
// transaction.
func (s *RecordStore) PutAll(ctx context.Context, records []store.Record) error {
	for _, r := range records {
		if r.Key == "" || !json.Valid(r.Value) {
			return fmt.Errorf("%w: %q", store.ErrInvalidRecord, r.Key)
		}
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return upsertRecords(ctx, tx, records)
	})
	if err != nil {
		return MapError(err)
	}

	s.logger.DebugContext(ctx, "records written", slog.Int("count", len(records)))
	return nil
}

func upsertRecords(ctx context.Context, db store.DBTX, records []store.Record) error {
	for _, r := range records {
		if _, err := db.ExecContext(ctx, upsertRecordQuery, r.Key, string(r.Value)); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.Key, err)
		}
	}
	return nil
}

// Close implements store.RecordStore.
func (s *RecordStore) Close() error {
	return s.db.Close()
}
