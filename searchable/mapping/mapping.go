// Package mapping describes entities, their fields and associations, as
// seen by the planner.
package mapping

import (
	"fmt"
	"regexp"
	"sort"

	serrors "github.com/ministore/searchable/searchable/errors"
)

// TypeAssociation is the pseudo type of a path ending on an association.
const TypeAssociation = "association"

// Metadata is the read-only view of one entity used while compiling.
type Metadata interface {
	Name() string
	Table() string
	HasField(name string) bool
	FieldType(name string) string
	Column(name string) string
	HasAssociation(name string) bool
	Association(name string) (Association, bool)
	AssociationTarget(name string) (Metadata, error)
}

// Field is a scalar field with its declared type token.
type Field struct {
	Name   string `yaml:"-" json:"-"`
	Type   string `yaml:"type" json:"type"`
	Column string `yaml:"column,omitempty" json:"column,omitempty"`
}

// Association is a many-to-one link to Target. LocalColumn lives on the
// owning table, ForeignColumn on the target table.
type Association struct {
	Name          string `yaml:"-" json:"-"`
	Target        string `yaml:"target" json:"target"`
	LocalColumn   string `yaml:"column,omitempty" json:"column,omitempty"`
	ForeignColumn string `yaml:"references,omitempty" json:"references,omitempty"`
}

// EntityDef declares an entity.
type EntityDef struct {
	Name         string
	Table        string
	Fields       []Field
	Associations []Association
}

// Entity is a validated entity bound to its catalog.
type Entity struct {
	name    string
	table   string
	fields  map[string]Field
	assocs  map[string]Association
	catalog *Catalog
}

func (e *Entity) Name() string  { return e.name }
func (e *Entity) Table() string { return e.table }

func (e *Entity) HasField(name string) bool {
	_, ok := e.fields[name]
	return ok
}

func (e *Entity) FieldType(name string) string {
	return e.fields[name].Type
}

// Column returns the physical column of a field or, for an association, its
// local join column.
func (e *Entity) Column(name string) string {
	if f, ok := e.fields[name]; ok {
		return f.Column
	}
	if a, ok := e.assocs[name]; ok {
		return a.LocalColumn
	}
	return ""
}

func (e *Entity) HasAssociation(name string) bool {
	_, ok := e.assocs[name]
	return ok
}

func (e *Entity) Association(name string) (Association, bool) {
	a, ok := e.assocs[name]
	return a, ok
}

func (e *Entity) AssociationTarget(name string) (Metadata, error) {
	a, ok := e.assocs[name]
	if !ok {
		return nil, serrors.AssociationNotFound(e.name, name)
	}
	target, err := e.catalog.Entity(a.Target)
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Fields lists fields sorted by name.
func (e *Entity) Fields() []Field {
	out := make([]Field, 0, len(e.fields))
	for _, f := range e.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Associations lists associations sorted by name.
func (e *Entity) Associations() []Association {
	out := make([]Association, 0, len(e.assocs))
	for _, a := range e.assocs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Catalog is a closed set of entities whose associations resolve within it.
type Catalog struct {
	entities map[string]*Entity
}

var validNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewCatalog validates defs and links associations. Missing columns default
// to the field name, <association>_id and id.
func NewCatalog(defs ...EntityDef) (*Catalog, error) {
	c := &Catalog{entities: make(map[string]*Entity, len(defs))}

	for _, d := range defs {
		if !validNameRe.MatchString(d.Name) {
			return nil, serrors.SchemaError(fmt.Sprintf("invalid entity name: %q", d.Name))
		}
		if _, dup := c.entities[d.Name]; dup {
			return nil, serrors.SchemaError(fmt.Sprintf("duplicate entity %q", d.Name))
		}
		e := &Entity{
			name:    d.Name,
			table:   d.Table,
			fields:  make(map[string]Field, len(d.Fields)),
			assocs:  make(map[string]Association, len(d.Associations)),
			catalog: c,
		}
		if e.table == "" {
			e.table = d.Name
		}

		for _, f := range d.Fields {
			if !validNameRe.MatchString(f.Name) {
				return nil, serrors.SchemaError(fmt.Sprintf("%s: invalid field name: %q", d.Name, f.Name))
			}
			if f.Type == "" {
				return nil, serrors.SchemaError(fmt.Sprintf("%s.%s: missing type", d.Name, f.Name))
			}
			if _, dup := e.fields[f.Name]; dup {
				return nil, serrors.SchemaError(fmt.Sprintf("%s: duplicate field %q", d.Name, f.Name))
			}
			if f.Column == "" {
				f.Column = f.Name
			}
			e.fields[f.Name] = f
		}

		for _, a := range d.Associations {
			if !validNameRe.MatchString(a.Name) {
				return nil, serrors.SchemaError(fmt.Sprintf("%s: invalid association name: %q", d.Name, a.Name))
			}
			if _, clash := e.fields[a.Name]; clash {
				return nil, serrors.SchemaError(fmt.Sprintf("%s: %q is both a field and an association", d.Name, a.Name))
			}
			if _, dup := e.assocs[a.Name]; dup {
				return nil, serrors.SchemaError(fmt.Sprintf("%s: duplicate association %q", d.Name, a.Name))
			}
			if a.LocalColumn == "" {
				a.LocalColumn = a.Name + "_id"
			}
			if a.ForeignColumn == "" {
				a.ForeignColumn = "id"
			}
			e.assocs[a.Name] = a
		}

		c.entities[d.Name] = e
	}

	for _, e := range c.entities {
		for _, a := range e.assocs {
			if _, ok := c.entities[a.Target]; !ok {
				return nil, serrors.SchemaError(fmt.Sprintf("%s.%s: unknown target entity %q", e.name, a.Name, a.Target))
			}
		}
	}
	return c, nil
}

// Entity returns the named entity.
func (c *Catalog) Entity(name string) (*Entity, error) {
	e, ok := c.entities[name]
	if !ok {
		return nil, serrors.SchemaError(fmt.Sprintf("unknown entity %q", name))
	}
	return e, nil
}

// Names lists entity names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.entities))
	for name := range c.entities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
