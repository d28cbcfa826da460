package mapping

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	serrors "github.com/ministore/searchable/searchable/errors"
)

//go:embed mapping.schema.json
var documentSchema string

var (
	compiledOnce   sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

func schema() (*gojsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	})
	return compiledSchema, compileErr
}

type document struct {
	Entities map[string]entityDoc `yaml:"entities"`
}

type entityDoc struct {
	Table        string                 `yaml:"table"`
	Fields       map[string]Field       `yaml:"fields"`
	Associations map[string]Association `yaml:"associations"`
}

// Load reads a mapping document (YAML or JSON):
//
//	entities:
//	  Book:
//	    table: books
//	    fields:
//	      name: {type: string}
//	    associations:
//	      author: {target: Author, column: author_id}
func Load(data []byte) (*Catalog, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, serrors.Wrap(serrors.ErrSchema, "invalid mapping document", err)
	}

	names := make([]string, 0, len(doc.Entities))
	for name := range doc.Entities {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]EntityDef, 0, len(names))
	for _, name := range names {
		ed := doc.Entities[name]
		def := EntityDef{Name: name, Table: ed.Table}
		for _, fname := range sortedKeys(ed.Fields) {
			f := ed.Fields[fname]
			f.Name = fname
			def.Fields = append(def.Fields, f)
		}
		for _, aname := range sortedKeys(ed.Associations) {
			a := ed.Associations[aname]
			a.Name = aname
			def.Associations = append(def.Associations, a)
		}
		defs = append(defs, def)
	}
	return NewCatalog(defs...)
}

// LoadFile reads a mapping document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrIO, "read mapping "+path, err)
	}
	return Load(data)
}

// Validate checks a mapping document against the embedded JSON Schema.
func Validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return serrors.Wrap(serrors.ErrSchema, "invalid mapping document", err)
	}
	if raw == nil {
		return serrors.SchemaError("empty mapping document")
	}

	s, err := schema()
	if err != nil {
		return serrors.Wrap(serrors.ErrSchema, "mapping schema", err)
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return serrors.Wrap(serrors.ErrSchema, "mapping validation error", err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		sort.Strings(errs)
		return serrors.SchemaError(fmt.Sprintf("mapping invalid: %s", strings.Join(errs, "; ")))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
