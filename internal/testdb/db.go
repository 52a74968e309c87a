//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	// registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to the test database and closes it when the test ends. The
// test is skipped when no database URL is configured. Schema setup is left to
// the caller so that this package stays free of the migration code it tests.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	if ShouldSkip() {
		t.Skipf("%s not set, skipping database test", EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", DatabaseURL())
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", MaskedURL(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("failed to reach test database %s: %v", MaskedURL(), err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests can
// share the database without seeing each other's writes.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// Truncate empties tables at the end of the test, for code paths that commit
// their own transactions.
func Truncate(t *testing.T, db *sql.DB, tables ...string) {
	t.Helper()

	t.Cleanup(func() {
		for _, table := range tables {
			if _, err := db.ExecContext(context.Background(), "DELETE FROM "+table); err != nil {
				t.Logf("failed to truncate %s: %v", table, err)
			}
		}
	})
}
