// Package schema turns GraphQL SDL into schema nodes grouped by domain.
package schema

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// DomainDirective names the type directive that assigns a domain.
const DomainDirective = "domain"

const domainDirectiveSDL = `directive @domain(name: String!) on OBJECT | INTERFACE | ENUM`

// Options controls domain assignment for types without a @domain directive.
type Options struct {
	// Domains maps type name to domain.
	Domains map[string]string
	// PrimaryDomain receives every type not otherwise assigned.
	PrimaryDomain string
}

// LoadFile reads and loads an SDL file.
func LoadFile(path string, opts Options) ([]domain.SchemaNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return Load(path, string(data), opts)
}

// Load parses sdl and returns one node per object, interface and enum type,
// sorted by name. Built-in and introspection types are skipped.
func Load(name, sdl string, opts Options) ([]domain.SchemaNode, error) {
	sources := []*ast.Source{{Name: name, Input: sdl}}
	if !strings.Contains(sdl, "directive @"+DomainDirective) {
		sources = append([]*ast.Source{{Name: "graphvinci.graphql", Input: domainDirectiveSDL, BuiltIn: true}}, sources...)
	}
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", name, err)
	}

	names := make([]string, 0, len(s.Types))
	for n := range s.Types {
		names = append(names, n)
	}
	sort.Strings(names)

	var nodes []domain.SchemaNode
	for _, n := range names {
		def := s.Types[n]
		if def.BuiltIn || strings.HasPrefix(def.Name, "__") {
			continue
		}
		dom := domainFor(def, opts)
		switch def.Kind {
		case ast.Object, ast.Interface:
			nodes = append(nodes, entityFrom(s, def, dom))
		case ast.Enum:
			values := make([]string, 0, len(def.EnumValues))
			for _, v := range def.EnumValues {
				values = append(values, v.Name)
			}
			nodes = append(nodes, domain.NewEnum(def.Name, dom, values...))
		}
	}
	return nodes, nil
}

func domainFor(def *ast.Definition, opts Options) string {
	if d := def.Directives.ForName(DomainDirective); d != nil {
		if arg := d.Arguments.ForName("name"); arg != nil && arg.Value != nil && arg.Value.Raw != "" {
			return arg.Value.Raw
		}
	}
	if d, ok := opts.Domains[def.Name]; ok && d != "" {
		return d
	}
	return opts.PrimaryDomain
}

func entityFrom(s *ast.Schema, def *ast.Definition, dom string) *domain.Entity {
	super := domain.SuperObject
	if def.Kind == ast.Interface {
		super = domain.SuperInterface
	}
	e := domain.NewEntity(def.Name, dom, super)
	e.SetDescription(def.Description)
	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		e.AddField(fieldFrom(s, f))
	}
	return e
}

// fieldFrom classifies a field by its named type: scalars are properties,
// anything that is itself a node (object, interface, enum) or a union is a
// link.
func fieldFrom(s *ast.Schema, f *ast.FieldDefinition) domain.Field {
	field := domain.Field{Name: f.Name, Definition: f.Type.String(), Kind: domain.FieldProperty}
	target := s.Types[f.Type.Name()]
	if target == nil {
		return field
	}
	switch target.Kind {
	case ast.Object, ast.Interface, ast.Enum, ast.Union:
		field.Kind = domain.FieldLink
		field.Target = target.Name
	}
	return field
}
