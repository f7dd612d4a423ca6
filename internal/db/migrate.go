package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := scopeHistoryByEndpoint(db); err != nil {
		return fmt.Errorf("scoping history by endpoint: %w", err)
	}
	return nil
}

const historyTable = `(
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		hash_code  INTEGER NOT NULL,
		operation  TEXT NOT NULL,
		variables  TEXT,
		type       TEXT NOT NULL DEFAULT 'query'
		           CHECK(type IN ('query','mutation','subscription')),
		op         TEXT NOT NULL DEFAULT 'unknown',
		preview    TEXT NOT NULL DEFAULT '',
		endpoint   TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE(endpoint, hash_code)
	)`

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS history ` + historyTable,

	`CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at)`,

	// Tables created before entries recorded their endpoint.
	`ALTER TABLE history ADD COLUMN endpoint TEXT NOT NULL DEFAULT ''`,
}

// scopeHistoryByEndpoint rebuilds a history table whose hash_code is unique
// on its own, so the same operation can be saved once per endpoint. Tables
// already keyed by (endpoint, hash_code) are left alone.
func scopeHistoryByEndpoint(db *sql.DB) error {
	var ddl string
	if err := db.QueryRow(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'history'`).Scan(&ddl); err != nil {
		return fmt.Errorf("reading history table: %w", err)
	}
	if strings.Contains(ddl, "UNIQUE(endpoint, hash_code)") {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	const cols = `id, hash_code, operation, variables, type, op, preview, endpoint, created_at`
	for _, stmt := range []string{
		`CREATE TABLE history_scoped ` + historyTable,
		`INSERT INTO history_scoped (` + cols + `) SELECT ` + cols + ` FROM history`,
		`DROP TABLE history`,
		`ALTER TABLE history_scoped RENAME TO history`,
		`CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at)`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
