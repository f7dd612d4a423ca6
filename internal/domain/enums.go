package domain

// SuperType is the GraphQL kind a schema node was built from.
type SuperType string

const (
	SuperObject    SuperType = "OBJECT"
	SuperInterface SuperType = "INTERFACE"
	SuperEnum      SuperType = "ENUM"
)

// FieldKind classifies a field as a scalar-valued property or a link to
// another schema node.
type FieldKind string

const (
	FieldProperty FieldKind = "PROPERTY"
	FieldLink     FieldKind = "LINK"
)

// OperationType is the GraphQL operation kind recorded with a history entry.
type OperationType string

const (
	OperationQuery        OperationType = "query"
	OperationMutation     OperationType = "mutation"
	OperationSubscription OperationType = "subscription"
)
