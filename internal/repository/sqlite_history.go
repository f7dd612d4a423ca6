package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/graphvinci/graphvinci/internal/db"
	"github.com/graphvinci/graphvinci/internal/domain"
)

// SQLiteHistoryRepo implements HistoryRepo using a SQLite database.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

// NewSQLiteHistoryRepo creates a new SQLiteHistoryRepo.
func NewSQLiteHistoryRepo(conn db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn}
}

const historyColumns = `hash_code, operation, variables, type, op, preview, endpoint, created_at`

func (r *SQLiteHistoryRepo) Create(ctx context.Context, e *domain.HistoryEntry) (bool, error) {
	createdAt := nowUTC()
	if !e.CreatedAt.IsZero() {
		createdAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	query := `INSERT OR IGNORE INTO history (` + historyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.HashCode,
		e.Operation,
		nullableJSON(e.Variables),
		string(e.Type),
		e.Op,
		e.Preview,
		e.Endpoint,
		createdAt,
	)
	if err != nil {
		return false, fmt.Errorf("inserting history entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking inserted history entry: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteHistoryRepo) GetByHash(ctx context.Context, endpoint string, hash int64) (*domain.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM history WHERE endpoint = ? AND hash_code = ?`
	row := r.db.QueryRowContext(ctx, query, endpoint, hash)
	e, err := scanHistory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("history entry %d: %w", hash, ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (r *SQLiteHistoryRepo) List(ctx context.Context, endpoint, filter string) ([]*domain.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM history WHERE endpoint = ? ORDER BY id`
	args := []any{endpoint}
	if filter != "" {
		// instr is case-sensitive, matching a plain substring test.
		query = `SELECT ` + historyColumns + ` FROM history WHERE endpoint = ? AND instr(operation, ?) > 0 ORDER BY id`
		args = append(args, filter)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []*domain.HistoryEntry
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

func (r *SQLiteHistoryRepo) Delete(ctx context.Context, endpoint string, hash int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE endpoint = ? AND hash_code = ?`, endpoint, hash)
	if err != nil {
		return false, fmt.Errorf("deleting history entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted history entry: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHistory(s scanner) (*domain.HistoryEntry, error) {
	var (
		e         domain.HistoryEntry
		variables sql.NullString
		typ       string
		createdAt string
	)
	if err := s.Scan(&e.HashCode, &e.Operation, &variables, &typ, &e.Op, &e.Preview, &e.Endpoint, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning history entry: %w", err)
	}
	vars, err := parseNullableJSON(variables)
	if err != nil {
		return nil, fmt.Errorf("history entry %d: %w", e.HashCode, err)
	}
	e.Variables = vars
	e.Type = domain.OperationType(typ)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &e, nil
}
