// Package history derives the content hash and display metadata of saved
// GraphQL operations.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
)

// canonical renders {operation, variables} the way the query window
// serialized it: operation first, variables omitted when absent, no HTML
// escaping.
func canonical(query string, variables json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteString(`{"operation":`)
	if err := enc.Encode(query); err != nil {
		return nil, fmt.Errorf("encoding operation: %w", err)
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	if len(bytes.TrimSpace(variables)) > 0 {
		var compact bytes.Buffer
		if err := json.Compact(&compact, variables); err != nil {
			return nil, fmt.Errorf("compacting variables: %w", err)
		}
		buf.WriteString(`,"variables":`)
		buf.Write(compact.Bytes())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Hash is a 32-bit rolling hash (h = h*31 + c over UTF-16 code units) of s,
// returned as its absolute value.
func Hash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// HashOperation returns the content hash of an operation and its variables.
func HashOperation(query string, variables json.RawMessage) (int64, error) {
	b, err := canonical(query, variables)
	if err != nil {
		return 0, err
	}
	return Hash(string(b)), nil
}
