package testutil

import (
	"github.com/graphvinci/graphvinci/internal/domain"
)

// Entity options
type EntityOption func(*domain.Entity)

// WithProperty adds a scalar field.
func WithProperty(name, definition string) EntityOption {
	return func(e *domain.Entity) {
		e.AddField(domain.Field{Name: name, Definition: definition, Kind: domain.FieldProperty})
	}
}

// WithLink adds a link field pointing at target.
func WithLink(name, target string) EntityOption {
	return func(e *domain.Entity) {
		e.AddField(domain.Field{Name: name, Definition: target, Kind: domain.FieldLink, Target: target})
	}
}

// WithPosition places the entity.
func WithPosition(x, y float64) EntityOption {
	return func(e *domain.Entity) {
		e.X, e.Y = x, y
	}
}

func NewTestEntity(name, dom string, opts ...EntityOption) *domain.Entity {
	e := domain.NewEntity(name, dom, domain.SuperObject)
	e.AddField(domain.Field{Name: "id", Definition: "ID!", Kind: domain.FieldProperty})
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewShopSchema returns a small two-domain schema: Users{User, Account} and
// Orders{Order, LineItem, OrderStatus}.
func NewShopSchema() []domain.SchemaNode {
	return []domain.SchemaNode{
		NewTestEntity("User", "Users",
			WithProperty("email", "String!"),
			WithLink("account", "Account"),
			WithLink("orders", "Order"),
		),
		NewTestEntity("Account", "Users", WithProperty("balance", "Float")),
		NewTestEntity("Order", "Orders",
			WithProperty("total", "Float!"),
			WithLink("owner", "User"),
			WithLink("items", "LineItem"),
			WithLink("status", "OrderStatus"),
		),
		NewTestEntity("LineItem", "Orders", WithProperty("quantity", "Int!")),
		domain.NewEnum("OrderStatus", "Orders", "OPEN", "SHIPPED", "CLOSED"),
	}
}
