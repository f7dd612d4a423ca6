package history

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_Query(t *testing.T) {
	e, err := NewEntry(domain.Operation{Query: "{\n  users {\n    id\n  }\n}"})
	require.NoError(t, err)

	assert.Equal(t, domain.OperationQuery, e.Type)
	assert.Equal(t, "users", e.Op)
	assert.Equal(t, "{   users {     id   } }", e.Preview)
	assert.Nil(t, e.Variables)
	assert.NotZero(t, e.HashCode)
}

func TestNewEntry_Mutation(t *testing.T) {
	e, err := NewEntry(domain.Operation{
		Query:     `mutation Add($n: String!) { addUser(name: $n) { id } }`,
		Variables: json.RawMessage(`{"n":"ada"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OperationMutation, e.Type)
	assert.Equal(t, "addUser", e.Op)
	assert.JSONEq(t, `{"n":"ada"}`, string(e.Variables))
}

func TestNewEntry_UnparseableKeepsDefaults(t *testing.T) {
	e, err := NewEntry(domain.Operation{Query: "this is not graphql {"})
	require.NoError(t, err)

	assert.Equal(t, domain.OperationQuery, e.Type)
	assert.Equal(t, "unknown", e.Op)
	assert.Equal(t, "this is not graphql {", e.Preview)
}

func TestNewEntry_Empty(t *testing.T) {
	e, err := NewEntry(domain.Operation{})
	require.NoError(t, err)
	assert.Equal(t, "query unknown", e.Preview)
}

func TestPreview_Truncates(t *testing.T) {
	long := strings.Repeat("x", 150)
	assert.Equal(t, strings.Repeat("x", 100)+" ...", Preview(long))
	assert.Equal(t, strings.Repeat("y", 100), Preview(strings.Repeat("y", 100)))
}

func TestPreview_CountsUTF16Units(t *testing.T) {
	// Each emoji is a surrogate pair, so fifty fill the preview exactly.
	assert.Equal(t, strings.Repeat("😀", 50), Preview(strings.Repeat("😀", 50)))
	assert.Equal(t, strings.Repeat("😀", 50)+" ...", Preview(strings.Repeat("😀", 60)))

	// An odd offset cuts the last pair in half.
	assert.Equal(t, "x"+strings.Repeat("😀", 49)+"\uFFFD ...", Preview("x"+strings.Repeat("😀", 60)))

	assert.Equal(t, strings.Repeat("é", 100)+" ...", Preview(strings.Repeat("é", 101)), "BMP runes are one unit")
}
