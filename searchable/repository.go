// Package searchable compiles declarative filter and order specifications
// into query plans for one entity and runs them through a storage adapter.
package searchable

import (
	"context"
	"database/sql"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/ministore/searchable/searchable/filter"
	"github.com/ministore/searchable/searchable/planner"
	"github.com/ministore/searchable/searchable/storage"
	"github.com/ministore/searchable/searchable/types"
)

// Repository searches one entity.
type Repository struct {
	entity  planner.Schema
	types   *types.Registry
	adapter storage.Adapter
	db      *sql.DB
	logger  *slog.Logger
}

// New returns a repository that compiles plans but has no database.
func New(entity planner.Schema, opts RepositoryOptions) *Repository {
	opts = opts.withDefaults()
	return &Repository{
		entity: entity,
		types:  opts.Types,
		logger: opts.Logger.With("entity", entity.Name()),
	}
}

// Open connects through adapter and returns a repository for entity.
func Open(ctx context.Context, adapter storage.Adapter, entity planner.Schema, opts RepositoryOptions) (*Repository, error) {
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}

	r := New(entity, opts)
	r.adapter = adapter
	r.db = db
	r.logger = r.logger.With("backend", string(adapter.Backend()))
	r.logger.Debug("repository opened", "target", adapter.Target())
	return r, nil
}

// Close closes the database, if any.
func (r *Repository) Close() error {
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return Wrap(ErrIO, "close database", err)
		}
	}
	if r.adapter != nil {
		return r.adapter.Close()
	}
	return nil
}

// Entity returns the searched entity.
func (r *Repository) Entity() planner.Schema { return r.entity }

// DB returns the open database, nil for a compile-only repository.
func (r *Repository) DB() *sql.DB { return r.db }

// RegisterType binds a declared field type to a handler.
func (r *Repository) RegisterType(name string, h types.Handler) {
	r.types.Register(name, h)
}

func (r *Repository) HasType(name string) bool {
	return r.types.Has(name)
}

// ResolveType returns the handler for name or the default handler.
func (r *Repository) ResolveType(name string) types.Handler {
	return r.types.Resolve(name)
}

// Compile builds the query plan for filters and orders.
func (r *Repository) Compile(filters filter.Spec, orders filter.Order) (*planner.Plan, error) {
	plan, err := planner.Compile(r.entity, r.types, filters, orders)
	if err != nil {
		r.logger.Debug("compile failed", "error", err)
		return nil, err
	}
	r.logger.Debug("compiled plan",
		"joins", len(plan.Joins),
		"filters", len(plan.Where),
		"orders", len(plan.Orders),
		"params", len(plan.Params()),
	)
	return plan, nil
}

// SearchSQL compiles and renders the SELECT statement for the
// repository's backend.
func (r *Repository) SearchSQL(filters filter.Spec, orders filter.Order, opts SearchOptions) (string, []any, error) {
	plan, err := r.Compile(filters, orders)
	if err != nil {
		return "", nil, err
	}
	return r.render(plan, opts)
}

func (r *Repository) render(plan *planner.Plan, opts SearchOptions) (string, []any, error) {
	var format sq.PlaceholderFormat = sq.Question
	if r.adapter != nil {
		format = r.adapter.PlaceholderFormat()
	}
	query, args, err := planner.BuildSelectSQL(plan, planner.SelectOptions{
		Format: format,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
	if err != nil {
		return "", nil, Wrap(ErrSQL, "render plan", err)
	}
	return query, args, nil
}

// Search compiles filters and orders and returns the matching rows.
func (r *Repository) Search(ctx context.Context, filters filter.Spec, orders filter.Order, opts SearchOptions) ([]Row, error) {
	if r.db == nil {
		return nil, Wrap(ErrIO, "search", errNoDatabase)
	}

	plan, err := r.Compile(filters, orders)
	if err != nil {
		return nil, err
	}
	query, args, err := r.render(plan, opts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("search query failed", "error", err, "sql", query)
		return nil, Wrap(ErrSQL, "search query", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, Wrap(ErrSQL, "scan rows", err)
	}
	r.logger.Debug("search done", "rows", len(out))
	return out, nil
}
