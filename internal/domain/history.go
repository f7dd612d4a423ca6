package domain

import (
	"encoding/json"
	"time"
)

// Operation is a GraphQL operation as submitted by the query window.
type Operation struct {
	Query     string
	Variables json.RawMessage
}

// HistoryEntry is a saved operation, keyed by the content hash of its
// operation text and variables.
type HistoryEntry struct {
	HashCode  int64
	Operation string
	Variables json.RawMessage
	Type      OperationType
	Op        string
	Preview   string
	Endpoint  string
	CreatedAt time.Time
}
