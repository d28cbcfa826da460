package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ministore/searchable/internal/cliopt"
	"github.com/ministore/searchable/searchable/filter"
	"github.com/ministore/searchable/searchable/mapping"
	"github.com/ministore/searchable/searchable/storage"
	"github.com/ministore/searchable/searchable/storage/postgres"
	"github.com/ministore/searchable/searchable/storage/sqlite"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatJSON   OutputFormat = "json"
	FormatSQL    OutputFormat = "sql"
)

func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatPretty, FormatJSON, FormatSQL:
		return OutputFormat(s)
	default:
		return FormatPretty
	}
}

func PrintJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// ResolveDatabaseRef transforms the user-provided --db value into a backend-specific reference.
//
//   - sqlite: if db contains a path separator or ends with .db, treat as explicit path.
//     else: <SQLitePath>/<name>.db; an empty name uses SQLitePath itself.
//   - postgres: the DSN.
func ResolveDatabaseRef(g cliopt.GlobalOptions, db string) string {
	switch strings.ToLower(g.Backend) {
	case "sqlite":
		if db == "" {
			return g.SQLitePath
		}
		if strings.Contains(db, string(filepath.Separator)) || strings.HasSuffix(db, ".db") {
			return db
		}
		return filepath.Join(g.SQLitePath, db+".db")
	default:
		return g.PostgresDSN
	}
}

// NewAdapter builds the storage adapter selected by g. It does not connect.
func NewAdapter(g cliopt.GlobalOptions, db string) (storage.Adapter, error) {
	switch storage.Backend(strings.ToLower(g.Backend)) {
	case storage.BackendSQLite:
		return sqlite.NewWithDriver(ResolveDatabaseRef(g, db), g.SQLiteDriver), nil
	case storage.BackendPostgres:
		if g.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend needs --pg-dsn")
		}
		return postgres.New(g.PostgresDSN, g.PGSchema), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", g.Backend)
	}
}

// LoadEntity reads the mapping file and returns the named entity.
func LoadEntity(g cliopt.GlobalOptions, name string) (*mapping.Entity, error) {
	if name == "" {
		return nil, fmt.Errorf("missing --entity")
	}
	c, err := mapping.LoadFile(g.Mapping)
	if err != nil {
		return nil, err
	}
	return c.Entity(name)
}

// SpecInput names the places a filter and order specification can come
// from. Inline values are appended after the document's entries.
type SpecInput struct {
	Document string // file path, "-" for stdin
	Filters  string // inline JSON or YAML
	Orders   string // inline JSON or YAML
}

func (in SpecInput) Read(stdin io.Reader) (filter.Spec, filter.Order, error) {
	var doc filter.Document
	if in.Document != "" {
		var data []byte
		var err error
		if in.Document == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(in.Document)
		}
		if err != nil {
			return nil, nil, err
		}
		doc, err = filter.DecodeDocument(data)
		if err != nil {
			return nil, nil, err
		}
	}

	if in.Filters != "" {
		s, err := filter.DecodeSpec([]byte(in.Filters))
		if err != nil {
			return nil, nil, err
		}
		doc.Filters = append(doc.Filters, s...)
	}
	if in.Orders != "" {
		o, err := filter.DecodeOrder([]byte(in.Orders))
		if err != nil {
			return nil, nil, err
		}
		doc.Orders = append(doc.Orders, o...)
	}
	return doc.Filters, doc.Orders, nil
}
