package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// nullableJSON converts raw JSON to a value suitable for SQLite storage.
// Returns nil (SQL NULL) for empty input.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// parseNullableJSON validates a stored JSON column. Corrupt values are an
// error; nothing attempts recovery.
func parseNullableJSON(s sql.NullString) (json.RawMessage, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	if !json.Valid([]byte(s.String)) {
		return nil, fmt.Errorf("stored variables are not valid JSON")
	}
	return json.RawMessage(s.String), nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
