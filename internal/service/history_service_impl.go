package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/graphvinci/graphvinci/internal/db"
	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/history"
	"github.com/graphvinci/graphvinci/internal/repository"
)

type historyService struct {
	entries  repository.HistoryRepo
	uow      db.UnitOfWork
	endpoint string
	logger   *slog.Logger
}

// NewHistoryService creates a HistoryService over the entries saved for
// endpoint. Other endpoints' entries are never read, deduplicated against or
// deleted. A nil logger discards output.
func NewHistoryService(entries repository.HistoryRepo, uow db.UnitOfWork, endpoint string, logger *slog.Logger) HistoryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &historyService{entries: entries, uow: uow, endpoint: endpoint, logger: logger}
}

func (s *historyService) Save(ctx context.Context, op domain.Operation) (*domain.HistoryEntry, bool, error) {
	e, err := history.NewEntry(op)
	if err != nil {
		return nil, false, fmt.Errorf("building history entry: %w", err)
	}
	e.Endpoint = s.endpoint
	e.CreatedAt = time.Now().UTC()

	created, err := s.entries.Create(ctx, e)
	if err != nil {
		return nil, false, err
	}
	if !created {
		s.logger.DebugContext(ctx, "history_duplicate", "hash_code", e.HashCode, "endpoint", s.endpoint)
		existing, err := s.entries.GetByHash(ctx, s.endpoint, e.HashCode)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	s.logger.InfoContext(ctx, "history_saved", "hash_code", e.HashCode, "type", string(e.Type), "op", e.Op)
	return e, true, nil
}

func (s *historyService) Delete(ctx context.Context, hash int64) (bool, error) {
	deleted, err := s.entries.Delete(ctx, s.endpoint, hash)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.InfoContext(ctx, "history_deleted", "hash_code", hash)
	}
	return deleted, nil
}

func (s *historyService) Get(ctx context.Context, hash int64) (*domain.HistoryEntry, error) {
	return s.entries.GetByHash(ctx, s.endpoint, hash)
}

func (s *historyService) GetHistory(ctx context.Context, filter string) ([]*domain.HistoryEntry, error) {
	return s.entries.List(ctx, s.endpoint, filter)
}

// storedEntry is one value of the flat hash → entry mapping used by the
// browser's local storage and by Export.
type storedEntry struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables,omitempty"`
	HashCode  json.Number     `json:"hash_code,omitempty"`
	Type      string          `json:"type,omitempty"`
	Op        string          `json:"op,omitempty"`
	Preview   string          `json:"preview,omitempty"`
}

// Import reads a flat hash → entry JSON mapping and stores every entry in
// one transaction. Entries whose hash already exists are skipped; any
// invalid entry aborts the whole import.
func (s *historyService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var raw map[string]storedEntry
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := &ImportResult{}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLiteHistoryRepo(tx)
		for _, k := range keys {
			se := raw[k]
			if se.Operation == "" {
				return fmt.Errorf("history entry %q has no operation", k)
			}
			e, err := history.NewEntry(domain.Operation{Query: se.Operation, Variables: se.Variables})
			if err != nil {
				return fmt.Errorf("history entry %q: %w", k, err)
			}
			e.Endpoint = s.endpoint
			created, err := txEntries.Create(ctx, e)
			if err != nil {
				return err
			}
			if created {
				result.Imported++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "history_imported", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// Export writes every entry as a flat hash → entry JSON mapping.
func (s *historyService) Export(ctx context.Context, w io.Writer) error {
	entries, err := s.entries.List(ctx, s.endpoint, "")
	if err != nil {
		return err
	}
	out := make(map[string]storedEntry, len(entries))
	for _, e := range entries {
		key := strconv.FormatInt(e.HashCode, 10)
		out[key] = storedEntry{
			Operation: e.Operation,
			Variables: e.Variables,
			HashCode:  json.Number(key),
			Type:      string(e.Type),
			Op:        e.Op,
			Preview:   e.Preview,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means no history entry matched.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
