package filter

import (
	"fmt"
	"sort"
	"strings"

	serrors "github.com/ministore/searchable/searchable/errors"
)

// Selector addresses one field path or, for the multi-field form, an
// ordered set of paths whose conditions are OR-ed together.
type Selector struct {
	Paths []string
	Multi bool
}

// Path selects a single field path.
func Path(p string) Selector {
	return Selector{Paths: []string{p}}
}

// AnyOf selects a set of field paths.
func AnyOf(paths ...string) Selector {
	return Selector{Paths: paths, Multi: true}
}

func (s Selector) String() string {
	if !s.Multi {
		return strings.Join(s.Paths, "")
	}
	return "[" + strings.Join(s.Paths, ", ") + "]"
}

// Value is the right-hand side of a filter entry. It is one of Scalar,
// Conditioned or Explicit.
type Value interface {
	isValue()
}

// Scalar is a bare value; the condition defaults to eq.
type Scalar struct {
	Value any
}

func (Scalar) isValue() {}

// Conditioned is the single-entry {condition: value} form.
type Conditioned struct {
	Condition Condition
	Value     any
}

func (Conditioned) isValue() {}

// Explicit is the {field, condition, value} form. Field replaces the entry
// key, which then only serves as a label.
type Explicit struct {
	Field     Selector
	Condition Condition
	Value     any
}

func (Explicit) isValue() {}

// Entry is one keyed filter.
type Entry struct {
	Key   string
	Value Value
}

// Triple is the canonical form every entry is reduced to before dispatch.
type Triple struct {
	Field     Selector
	Condition Condition
	Value     any
}

// Normalize reduces the entry to its (selector, condition, value) triple.
func (e Entry) Normalize() Triple {
	switch v := e.Value.(type) {
	case Conditioned:
		return Triple{Field: Path(e.Key), Condition: v.Condition, Value: v.Value}
	case Explicit:
		cond := v.Condition
		if cond == "" {
			cond = Eq
		}
		return Triple{Field: v.Field, Condition: cond, Value: v.Value}
	case Scalar:
		return Triple{Field: Path(e.Key), Condition: Eq, Value: v.Value}
	default:
		return Triple{Field: Path(e.Key), Condition: Eq}
	}
}

// Spec is an ordered filter specification.
type Spec []Entry

// Paths lists every field path the spec references, flattening selectors.
func (s Spec) Paths() []string {
	var out []string
	for _, e := range s {
		out = append(out, e.Normalize().Field.Paths...)
	}
	return out
}

// Equal adds key = value.
func Equal(key string, value any) Entry {
	return Entry{Key: key, Value: Scalar{Value: value}}
}

// Where adds key <condition> value.
func Where(key string, cond Condition, value any) Entry {
	return Entry{Key: key, Value: Conditioned{Condition: cond, Value: value}}
}

// Across adds a multi-field entry labelled key: any of fields matching.
func Across(key string, fields []string, cond Condition, value any) Entry {
	return Entry{Key: key, Value: Explicit{Field: AnyOf(fields...), Condition: cond, Value: value}}
}

// Classify turns a loosely typed value, as found in decoded JSON or a Go
// map literal, into an Entry.
func Classify(key string, raw any) (Entry, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Entry{Key: key, Value: Scalar{Value: raw}}, nil
	}
	if field, ok := m["field"]; ok {
		sel, err := selectorOf(key, field)
		if err != nil {
			return Entry{}, err
		}
		var cond Condition
		if c, ok := m["condition"]; ok && c != nil {
			s, ok := c.(string)
			if !ok {
				return Entry{}, serrors.SpecError(fmt.Sprintf("filter %q: condition must be a string", key))
			}
			cond = Condition(s)
		}
		return Entry{Key: key, Value: Explicit{Field: sel, Condition: cond, Value: m["value"]}}, nil
	}
	if len(m) != 1 {
		return Entry{}, serrors.SpecError(fmt.Sprintf("filter %q: condition map must have exactly one entry, got %d", key, len(m)))
	}
	for c, v := range m {
		return Entry{Key: key, Value: Conditioned{Condition: Condition(c), Value: v}}, nil
	}
	return Entry{}, nil
}

func selectorOf(key string, field any) (Selector, error) {
	switch f := field.(type) {
	case string:
		return Path(f), nil
	case []string:
		return AnyOf(f...), nil
	case []any:
		paths := make([]string, 0, len(f))
		for _, p := range f {
			s, ok := p.(string)
			if !ok {
				return Selector{}, serrors.SpecError(fmt.Sprintf("filter %q: field list must contain strings", key))
			}
			paths = append(paths, s)
		}
		return AnyOf(paths...), nil
	default:
		return Selector{}, serrors.SpecError(fmt.Sprintf("filter %q: field must be a string or a list of strings", key))
	}
}

// FromMap builds a Spec from a Go map. Map iteration order is random, so
// entries are sorted by key; use a Spec literal or DecodeSpec when order
// matters.
func FromMap(m map[string]any) (Spec, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	spec := make(Spec, 0, len(keys))
	for _, k := range keys {
		e, err := Classify(k, m[k])
		if err != nil {
			return nil, err
		}
		spec = append(spec, e)
	}
	return spec, nil
}
