package planner

import (
	"fmt"
	"strings"

	serrors "github.com/ministore/searchable/searchable/errors"
	"github.com/ministore/searchable/searchable/expr"
	"github.com/ministore/searchable/searchable/mapping"
)

// RootAlias is the table alias of the searched entity.
const RootAlias = "main"

// Schema is the entity metadata the planner walks.
type Schema = mapping.Metadata

// Join is an inner join from Parent through Association to a table
// aliased Alias.
type Join struct {
	Parent        string
	Association   string
	Alias         string
	Table         string
	LocalColumn   string
	ForeignColumn string
}

func (j Join) String() string {
	return fmt.Sprintf("INNER JOIN %s.%s %s", j.Parent, j.Association, j.Alias)
}

type joinKey struct {
	parent string
	alias  string
}

// JoinRegistry holds the joins of one compile, at most one per
// (parent alias, join alias) pair, in registration order.
type JoinRegistry struct {
	seen  map[joinKey]struct{}
	joins []Join
}

func NewJoinRegistry() *JoinRegistry {
	return &JoinRegistry{seen: make(map[joinKey]struct{})}
}

// Add registers j unless its pair is already present. It reports whether
// the join was added.
func (r *JoinRegistry) Add(j Join) bool {
	k := joinKey{parent: j.Parent, alias: j.Alias}
	if _, ok := r.seen[k]; ok {
		return false
	}
	r.seen[k] = struct{}{}
	r.joins = append(r.joins, j)
	return true
}

func (r *JoinRegistry) Has(parent, alias string) bool {
	_, ok := r.seen[joinKey{parent: parent, alias: alias}]
	return ok
}

func (r *JoinRegistry) Len() int { return len(r.joins) }

// Joins returns the registered joins in order.
func (r *JoinRegistry) Joins() []Join {
	out := make([]Join, len(r.joins))
	copy(out, r.joins)
	return out
}

// Field is a resolved field path.
type Field struct {
	Path   string
	Type   string
	Alias  string
	Table  string
	Column string
}

// Expr returns the field as an expression operand.
func (f Field) Expr() expr.Column {
	return expr.Column{Alias: f.Alias, Table: f.Table, Name: f.Column}
}

// Resolver walks dotted paths, registering joins as it goes.
type Resolver struct {
	joins *JoinRegistry
}

func NewResolver(joins *JoinRegistry) *Resolver {
	return &Resolver{joins: joins}
}

// Resolve resolves path against schema, starting from the table alias
// alias. Every association hop registers a join.
func (r *Resolver) Resolve(path string, schema Schema, alias string) (Field, error) {
	f, err := r.resolve(path, schema, alias)
	if err != nil {
		return Field{}, err
	}
	f.Path = path
	return f, nil
}

// ResolveAll resolves each path of a field set independently.
func (r *Resolver) ResolveAll(paths []string, schema Schema, alias string) ([]Field, error) {
	out := make([]Field, 0, len(paths))
	for _, p := range paths {
		f, err := r.Resolve(p, schema, alias)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *Resolver) resolve(path string, schema Schema, alias string) (Field, error) {
	head, tail, nested := strings.Cut(path, ".")
	if !nested {
		switch {
		case schema.HasField(path):
			return Field{Type: schema.FieldType(path), Alias: alias + "." + path, Table: alias, Column: schema.Column(path)}, nil
		case schema.HasAssociation(path):
			return Field{Type: mapping.TypeAssociation, Alias: alias + "." + path, Table: alias, Column: schema.Column(path)}, nil
		default:
			return Field{}, serrors.FieldOrAssociationNotFound(schema.Name(), path)
		}
	}

	assoc, ok := schema.Association(head)
	if !ok {
		return Field{}, serrors.AssociationNotFound(schema.Name(), head)
	}
	target, err := schema.AssociationTarget(head)
	if err != nil {
		return Field{}, err
	}

	joinAlias := alias + "_" + head
	r.joins.Add(Join{
		Parent:        alias,
		Association:   head,
		Alias:         joinAlias,
		Table:         target.Table(),
		LocalColumn:   assoc.LocalColumn,
		ForeignColumn: assoc.ForeignColumn,
	})
	return r.resolve(tail, target, joinAlias)
}
