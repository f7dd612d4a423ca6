package history

import (
	"encoding/json"
	"strings"
	"unicode/utf16"

	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const (
	previewSize = 100
	previewEnd  = "..."
)

// NewEntry builds the history entry for op: its hash plus the operation
// type, first selected field and a one-line preview.
func NewEntry(op domain.Operation) (*domain.HistoryEntry, error) {
	hash, err := HashOperation(op.Query, op.Variables)
	if err != nil {
		return nil, err
	}
	e := &domain.HistoryEntry{
		HashCode:  hash,
		Operation: op.Query,
		Variables: normalizeVariables(op.Variables),
		Type:      domain.OperationQuery,
		Op:        "unknown",
		Preview:   "query unknown",
	}
	applyAST(e, op.Query)
	if op.Query != "" {
		e.Preview = Preview(op.Query)
	}
	return e, nil
}

func normalizeVariables(v json.RawMessage) json.RawMessage {
	if len(strings.TrimSpace(string(v))) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), v...)
}

// applyAST fills Type and Op from the first definition. Unparseable
// operations keep the defaults.
func applyAST(e *domain.HistoryEntry, query string) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil || doc == nil || len(doc.Operations) == 0 {
		return
	}
	def := doc.Operations[0]
	if def.Operation != "" {
		e.Type = domain.OperationType(def.Operation)
	}
	if len(def.SelectionSet) == 0 {
		return
	}
	if f, ok := def.SelectionSet[0].(*ast.Field); ok && f.Name != "" {
		e.Op = f.Name
	}
}

// Preview flattens newlines and truncates to the first 100 UTF-16 code
// units, marking truncation with a trailing " ...". A surrogate pair split
// by the cut leaves U+FFFD in its place.
func Preview(query string) string {
	flat := strings.ReplaceAll(query, "\n", " ")
	units := utf16.Encode([]rune(flat))
	if len(units) <= previewSize {
		return flat
	}
	return string(utf16.Decode(units[:previewSize])) + " " + previewEnd
}
