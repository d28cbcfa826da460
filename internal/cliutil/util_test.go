package cliutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministore/searchable/internal/cliopt"
	"github.com/ministore/searchable/searchable/filter"
	"github.com/ministore/searchable/searchable/storage"
)

func TestResolveDatabaseRef(t *testing.T) {
	g := cliopt.DefaultGlobalOptions()
	g.SQLitePath = "/data"
	assert.Equal(t, filepath.Join("/data", "library.db"), ResolveDatabaseRef(g, "library"))
	assert.Equal(t, "other.db", ResolveDatabaseRef(g, "other.db"))
	assert.Equal(t, "/data", ResolveDatabaseRef(g, ""))

	g.Backend = "postgres"
	g.PostgresDSN = "postgres://x/db"
	assert.Equal(t, "postgres://x/db", ResolveDatabaseRef(g, "ignored"))
}

func TestNewAdapter(t *testing.T) {
	g := cliopt.DefaultGlobalOptions()
	a, err := NewAdapter(g, "lib.db")
	require.NoError(t, err)
	assert.Equal(t, storage.BackendSQLite, a.Backend())
	assert.Equal(t, "lib.db", a.Target())

	g.Backend = "postgres"
	_, err = NewAdapter(g, "")
	assert.Error(t, err)

	g.PostgresDSN = "postgres://u@localhost:5432/db"
	a, err = NewAdapter(g, "")
	require.NoError(t, err)
	assert.Equal(t, storage.BackendPostgres, a.Backend())

	g.Backend = "redis"
	_, err = NewAdapter(g, "")
	assert.Error(t, err)
}

func TestSpecInputRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filters:\n  name: Alice\norders:\n  id: ASC\n"), 0o644))

	in := SpecInput{Document: path, Filters: `{"nbSales": {"gt": 3}}`, Orders: `nbSales: desc`}
	filters, orders, err := in.Read(nil)
	require.NoError(t, err)
	assert.Equal(t, filter.Spec{filter.Equal("name", "Alice"), filter.Where("nbSales", filter.Gt, 3)}, filters)
	assert.Equal(t, filter.Order{filter.By("id", "ASC"), filter.By("nbSales", "desc")}, orders)

	filters, _, err = SpecInput{Document: "-"}.Read(strings.NewReader(`{"filters": {"a": 1}}`))
	require.NoError(t, err)
	assert.Equal(t, filter.Spec{filter.Equal("a", 1)}, filters)

	_, _, err = SpecInput{Filters: "a: {x: 1, y: 2}"}.Read(nil)
	assert.Error(t, err)

	_, _, err = SpecInput{Document: filepath.Join(t.TempDir(), "missing.yaml")}.Read(nil)
	assert.Error(t, err)
}
