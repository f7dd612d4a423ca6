package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Running again must tolerate the already-added endpoint column.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesHistoryTable(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='history'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "history", name)

	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_history_created'`).Scan(&name)
	require.NoError(t, err)
}

func TestMigrate_TypeConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO history (hash_code, operation, type, created_at) VALUES (1, '{ a }', 'fragment', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown operation types are rejected")

	_, err = db.Exec(`INSERT INTO history (hash_code, operation, type, created_at) VALUES (1, '{ a }', 'mutation', '2026-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_HashUniquePerEndpoint(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO history (hash_code, operation, endpoint, created_at) VALUES (7, '{ a }', ?, '2026-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "http://a/graphql")
	require.NoError(t, err)
	_, err = db.Exec(insert, "http://b/graphql")
	require.NoError(t, err)
	_, err = db.Exec(insert, "http://a/graphql")
	assert.Error(t, err)
}
