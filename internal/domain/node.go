package domain

// Field is one field of a schema type as shown in its table.
type Field struct {
	Name       string
	Definition string // GraphQL type string, e.g. "[Order!]!"
	Kind       FieldKind
	Target     string // named type a LINK points at; empty for properties
}

// Edge connects a LINK field of Source to the node named Target.
type Edge struct {
	Source string
	Target string
	Field  string
}

// Position is the simulation state of a node. FX/FY are set while the node
// is pinned.
type Position struct {
	X, Y   float64
	VX, VY float64
	FX, FY *float64
}

// Fix pins the node at its current coordinates.
func (p *Position) Fix() {
	x, y := p.X, p.Y
	p.FX, p.FY = &x, &y
}

// Unfix releases a pinned node.
func (p *Position) Unfix() {
	p.FX, p.FY = nil, nil
}

// Fixed reports whether the node is pinned.
func (p *Position) Fixed() bool {
	return p.FX != nil && p.FY != nil
}

// SchemaNode is the capability set shared by every node variant. The set of
// variants is closed: Entity and Enum.
type SchemaNode interface {
	ID() string
	Name() string
	TrueName() string
	Domain() string
	SuperType() SuperType
	Properties() []Field
	Links() []Field
	Edges(nodes map[string]SchemaNode) []Edge
	Pos() *Position

	schemaNode()
}

// Entity is an object or interface type. Links are kept as added, including
// duplicate names; the table layout deduplicates them.
type Entity struct {
	Position

	name        string
	domain      string
	superType   SuperType
	description string
	properties  []Field
	links       []Field
}

// NewEntity creates an entity node. An empty superType defaults to OBJECT.
func NewEntity(name, domain string, superType SuperType) *Entity {
	if superType == "" {
		superType = SuperObject
	}
	return &Entity{name: name, domain: domain, superType: superType}
}

// AddField appends f to the property or link list according to its kind.
func (e *Entity) AddField(f Field) {
	if f.Kind == FieldLink {
		e.links = append(e.links, f)
		return
	}
	f.Kind = FieldProperty
	e.properties = append(e.properties, f)
}

// SetDescription attaches the type's schema description.
func (e *Entity) SetDescription(d string) { e.description = d }

// Description returns the type's schema description.
func (e *Entity) Description() string { return e.description }

func (e *Entity) ID() string { return e.name }
func (e *Entity) Name() string { return e.name }
func (e *Entity) TrueName() string { return e.name }
func (e *Entity) Domain() string { return e.domain }
func (e *Entity) SuperType() SuperType { return e.superType }
func (e *Entity) Pos() *Position { return &e.Position }
func (e *Entity) schemaNode() {}

func (e *Entity) Properties() []Field {
	return append([]Field(nil), e.properties...)
}

func (e *Entity) Links() []Field {
	return append([]Field(nil), e.links...)
}

// Edges returns one edge per distinct link field whose target is present in
// nodes.
func (e *Entity) Edges(nodes map[string]SchemaNode) []Edge {
	seen := make(map[string]bool, len(e.links))
	var edges []Edge
	for _, l := range e.links {
		if seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		if _, ok := nodes[l.Target]; !ok {
			continue
		}
		edges = append(edges, Edge{Source: e.name, Target: l.Target, Field: l.Name})
	}
	return edges
}

// Enum is an enum type. Its values render as property rows and it never has
// outgoing edges.
type Enum struct {
	Position

	name   string
	domain string
	values []string
}

// NewEnum creates an enum node with the given values.
func NewEnum(name, domain string, values ...string) *Enum {
	return &Enum{name: name, domain: domain, values: append([]string(nil), values...)}
}

func (e *Enum) ID() string { return e.name }
func (e *Enum) Name() string { return e.name }
func (e *Enum) TrueName() string { return e.name }
func (e *Enum) Domain() string { return e.domain }
func (e *Enum) SuperType() SuperType { return SuperEnum }
func (e *Enum) Links() []Field { return nil }
func (e *Enum) Edges(map[string]SchemaNode) []Edge { return nil }
func (e *Enum) Pos() *Position { return &e.Position }
func (e *Enum) schemaNode() {}

// Values returns the enum's values in declaration order.
func (e *Enum) Values() []string {
	return append([]string(nil), e.values...)
}

func (e *Enum) Properties() []Field {
	fields := make([]Field, len(e.values))
	for i, v := range e.values {
		fields[i] = Field{Name: v, Kind: FieldProperty}
	}
	return fields
}

// Compile-time verification that both variants satisfy SchemaNode.
var (
	_ SchemaNode = (*Entity)(nil)
	_ SchemaNode = (*Enum)(nil)
)
