package service

import (
	"context"
	"io"

	"github.com/graphvinci/graphvinci/internal/domain"
)

type HistoryService interface {
	// Save stores op unless an entry with the same content hash exists. The
	// returned entry is the stored one; saved is false for a duplicate.
	Save(ctx context.Context, op domain.Operation) (entry *domain.HistoryEntry, saved bool, err error)
	Delete(ctx context.Context, hash int64) (bool, error)
	Get(ctx context.Context, hash int64) (*domain.HistoryEntry, error)
	GetHistory(ctx context.Context, filter string) ([]*domain.HistoryEntry, error)
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
	Export(ctx context.Context, w io.Writer) error
}

// ImportResult counts the outcome of a history import.
type ImportResult struct {
	Imported int
	Skipped  int
}
