package searchable_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministore/searchable/searchable"
	"github.com/ministore/searchable/searchable/expr"
	"github.com/ministore/searchable/searchable/filter"
	"github.com/ministore/searchable/searchable/mapping"
	"github.com/ministore/searchable/searchable/types"
)

func bookEntity(t *testing.T) *mapping.Entity {
	t.Helper()
	c, err := mapping.Load([]byte(libraryMapping))
	require.NoError(t, err)
	book, err := c.Entity("Book")
	require.NoError(t, err)
	return book
}

func TestSearchSQLWithoutDatabase(t *testing.T) {
	r := searchable.New(bookEntity(t), searchable.RepositoryOptions{})
	assert.Equal(t, "Book", r.Entity().Name())
	assert.Equal(t, "books", r.Entity().Table())

	query, args, err := r.SearchSQL(
		filter.Spec{
			filter.Equal("author.firstName", "Lewis"),
			filter.Equal("author.lastName", "Carroll"),
		},
		filter.Order{filter.By("name", "ASC")},
		searchable.SearchOptions{Limit: 5},
	)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "main".* FROM "books" AS "main" JOIN "authors" AS "main_author" ON "main_author"."id" = "main"."author_id" `+
			`WHERE "main_author"."first_name" = ? AND "main_author"."last_name" = ? ORDER BY LOWER("main"."name") ASC LIMIT 5`,
		query)
	assert.Equal(t, []any{"Lewis", "Carroll"}, args)

	_, err = r.Search(context.Background(), nil, nil, searchable.SearchOptions{})
	assert.True(t, searchable.IsKind(err, searchable.ErrIO))
	assert.Nil(t, r.DB())
	assert.NoError(t, r.Close())
}

// exact treats like as a case-sensitive comparison.
type exact struct{ types.Generic }

func (exact) Name() string { return "exact" }

func (e exact) Filter(b expr.Binder, field expr.Column, cond filter.Condition, value any) (expr.Node, error) {
	if cond == filter.Like {
		cond = filter.Eq
	}
	return types.FilterWith(e, b, field, cond, value)
}

func TestRegisterType(t *testing.T) {
	r := searchable.New(bookEntity(t), searchable.DefaultRepositoryOptions())
	assert.True(t, r.HasType("string"))
	assert.False(t, r.HasType("datetime"))
	assert.Equal(t, "generic", r.ResolveType("datetime").Name())

	plan, err := r.Compile(filter.Spec{filter.Where("name", filter.Like, "Alice%")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "LOWER(main.name) LIKE LOWER(:main_name_like_value)", plan.Where[0].String())

	r.RegisterType("string", exact{})
	assert.Equal(t, "exact", r.ResolveType("string").Name())

	plan, err = r.Compile(filter.Spec{filter.Where("name", filter.Like, "Alice%")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "main.name = :main_name_eq_value", plan.Where[0].String())
}

func TestCompileLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := searchable.New(bookEntity(t), searchable.RepositoryOptions{Logger: logger})

	_, err := r.Compile(filter.Spec{filter.Equal("author.lastName", "Verne")}, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "compiled plan")
	assert.Contains(t, buf.String(), "entity=Book")
	assert.Contains(t, buf.String(), "joins=1")
}

func TestConcurrentCompiles(t *testing.T) {
	r := searchable.New(bookEntity(t), searchable.DefaultRepositoryOptions())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plan, err := r.Compile(
				filter.Spec{
					filter.Equal("author.firstName", "Lewis"),
					filter.Where("nbSales", filter.Gt, i),
				},
				filter.Order{filter.By("author.lastName", "ASC")},
			)
			if err != nil {
				errs <- err
				return
			}
			if len(plan.Joins) != 1 || len(plan.Params()) != 2 {
				errs <- assert.AnError
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
