package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/graphvinci/graphvinci/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

const insertHistory = `INSERT INTO history (hash_code, operation, created_at) VALUES (?, ?, '2026-01-01T00:00:00Z')`

// hasHash reads through a fresh transaction so it only sees committed rows.
func hasHash(uow *db.SQLiteUnitOfWork, hash int64) bool {
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		var op string
		if err := tx.QueryRowContext(ctx, `SELECT operation FROM history WHERE hash_code = ?`, hash).Scan(&op); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertHistory, 1, "{ a }")
		return err
	})
	require.NoError(t, err)
	assert.True(t, hasHash(uow, 1))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertHistory, 2, "{ b }"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.False(t, hasHash(uow, 2))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertHistory, 3, "{ c }")
			panic("boom")
		})
	})
	assert.False(t, hasHash(uow, 3))
}
