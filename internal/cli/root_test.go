package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testMapping = `
entities:
  Book:
    table: books
    fields:
      id: {type: integer}
      name: {type: string}
      nbSales: {type: integer, column: nb_sales}
    associations:
      author: {target: Author}
  Author:
    table: authors
    fields:
      id: {type: integer}
      lastName: {type: string, column: last_name}
`

const testFixtures = `
CREATE TABLE authors (id INTEGER PRIMARY KEY, last_name TEXT);
CREATE TABLE books (id INTEGER PRIMARY KEY, name TEXT, author_id INTEGER, nb_sales INTEGER);
INSERT INTO authors VALUES (1, 'Carroll'), (2, 'Verne');
INSERT INTO books VALUES
  (1, 'Through the Looking-Glass', 1, 50),
  (2, 'Alice''s Adventures in Wonderland', 1, 100),
  (3, 'Around the World in Eighty Days', 2, 80);
`

type env struct {
	mapping string
	db      string
}

func setup(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()

	mappingPath := filepath.Join(dir, "mapping.yaml")
	require.NoError(t, os.WriteFile(mappingPath, []byte(testMapping), 0o644))

	dbPath := filepath.Join(dir, "library.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(testFixtures)
	require.NoError(t, err)

	return env{mapping: mappingPath, db: dbPath}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(&errOut)
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCompileSQL(t *testing.T) {
	e := setup(t)
	out, err := run(t, "",
		"compile", "--mapping", e.mapping, "--entity", "Book",
		"--where", `{"author.lastName": "Carroll"}`,
		"--order", `{"name": "ASC"}`,
		"--format", "sql",
	)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "main".* FROM "books" AS "main" JOIN "authors" AS "main_author" ON "main_author"."id" = "main"."author_id" `+
			`WHERE "main_author"."last_name" = ? ORDER BY LOWER("main"."name") ASC`+"\n",
		out)
}

func TestCompilePrettyUsesPostgresPlaceholders(t *testing.T) {
	e := setup(t)
	out, err := run(t, "",
		"compile", "--mapping", e.mapping, "--entity", "Book",
		"--backend", "postgres", "--pg-dsn", "postgres://localhost/library",
		"--where", "nbSales: {gt: 60}",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Entity: Book (books AS main)")
	assert.Contains(t, out, "FILTER main.nbSales > :main_nbSales_gt_value")
	assert.Contains(t, out, `"main"."nb_sales" > $1`)
	assert.Contains(t, out, "Args: [60]")
}

func TestSearchJSON(t *testing.T) {
	e := setup(t)
	out, err := run(t, "filters:\n  author.lastName: Carroll\norders:\n  nbSales: DESC\n",
		"search", "--mapping", e.mapping, "--sqlite-path", e.db, "--entity", "Book",
		"--doc", "-", "--format", "json",
	)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, float64(2), rows[0]["id"])
	assert.Equal(t, float64(1), rows[1]["id"])
}

func TestSearchPrettyWithLimit(t *testing.T) {
	e := setup(t)
	out, err := run(t, "",
		"search", "--mapping", e.mapping, "--sqlite-path", e.db, "--entity", "Book",
		"--order", "name: asc", "--limit", "1",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 rows")
	assert.Contains(t, out, "Alice's Adventures in Wonderland")
}

func TestSearchUnknownField(t *testing.T) {
	e := setup(t)
	_, err := run(t, "",
		"search", "--mapping", e.mapping, "--sqlite-path", e.db, "--entity", "Book",
		"--where", "title: x",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestMappingCommands(t *testing.T) {
	e := setup(t)

	out, err := run(t, "", "mapping", "validate", e.mapping)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (2 entities)")

	out, err = run(t, "", "mapping", "show", "--mapping", e.mapping)
	require.NoError(t, err)
	assert.Contains(t, out, "Book (books)")
	assert.Contains(t, out, "column=nb_sales")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entities:\n  Book:\n    fields: 3\n"), 0o644))
	_, err = run(t, "", "mapping", "validate", bad)
	assert.Error(t, err)
}

func TestEnvOverridesDefault(t *testing.T) {
	e := setup(t)
	t.Setenv("SEARCHABLE_MAPPING", e.mapping)

	out, err := run(t, "", "mapping", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, e.mapping)
}
