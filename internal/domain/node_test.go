package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_FixUnfix(t *testing.T) {
	var p Position
	p.X, p.Y = 12, -4

	p.Fix()
	require.True(t, p.Fixed())
	assert.Equal(t, 12.0, *p.FX)
	assert.Equal(t, -4.0, *p.FY)

	// Pinned coordinates do not follow later moves.
	p.X = 99
	assert.Equal(t, 12.0, *p.FX)

	p.Unfix()
	assert.False(t, p.Fixed())
	assert.Nil(t, p.FX)
	assert.Nil(t, p.FY)

	// Idempotent.
	p.Unfix()
	assert.False(t, p.Fixed())
}

func TestEntity_AddFieldSplitsByKind(t *testing.T) {
	e := NewEntity("User", "Users", "")
	e.AddField(Field{Name: "id", Definition: "ID!"})
	e.AddField(Field{Name: "orders", Definition: "[Order!]", Kind: FieldLink, Target: "Order"})

	assert.Equal(t, SuperObject, e.SuperType())
	require.Len(t, e.Properties(), 1)
	assert.Equal(t, FieldProperty, e.Properties()[0].Kind)
	require.Len(t, e.Links(), 1)
	assert.Equal(t, "Order", e.Links()[0].Target)
}

func TestEntity_EdgesSkipsMissingTargetsAndDuplicates(t *testing.T) {
	user := NewEntity("User", "Users", SuperObject)
	order := NewEntity("Order", "Orders", SuperObject)
	user.AddField(Field{Name: "orders", Kind: FieldLink, Target: "Order"})
	user.AddField(Field{Name: "orders", Kind: FieldLink, Target: "Order"})
	user.AddField(Field{Name: "ghost", Kind: FieldLink, Target: "Missing"})

	nodes := map[string]SchemaNode{"User": user, "Order": order}
	edges := user.Edges(nodes)
	assert.Equal(t, []Edge{{Source: "User", Target: "Order", Field: "orders"}}, edges)
}

func TestEnum_ValuesAreProperties(t *testing.T) {
	e := NewEnum("Status", "Orders", "OPEN", "CLOSED")

	assert.Equal(t, SuperEnum, e.SuperType())
	assert.Empty(t, e.Links())
	assert.Empty(t, e.Edges(map[string]SchemaNode{}))

	props := e.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, "OPEN", props[0].Name)
	assert.Equal(t, FieldProperty, props[1].Kind)
}

func TestSchemaNode_PosIsShared(t *testing.T) {
	var n SchemaNode = NewEnum("Status", "Orders")
	n.Pos().X = 5
	n.Pos().Fix()
	assert.True(t, n.(*Enum).Fixed())
	assert.Equal(t, 5.0, n.(*Enum).X)
}
