package repository

import (
	"context"

	"github.com/graphvinci/graphvinci/internal/domain"
)

// HistoryRepo stores saved operations keyed by endpoint and content hash.
// Entries of one endpoint are invisible to every other endpoint.
type HistoryRepo interface {
	// Create inserts e unless an entry with the same hash exists for
	// e.Endpoint. It reports whether a row was written.
	Create(ctx context.Context, e *domain.HistoryEntry) (bool, error)
	GetByHash(ctx context.Context, endpoint string, hash int64) (*domain.HistoryEntry, error)
	// List returns the endpoint's entries in save order. A non-empty filter
	// keeps entries whose operation text contains it.
	List(ctx context.Context, endpoint, filter string) ([]*domain.HistoryEntry, error)
	Delete(ctx context.Context, endpoint string, hash int64) (bool, error)
}
