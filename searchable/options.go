package searchable

import (
	"log/slog"

	"github.com/ministore/searchable/searchable/types"
)

// RepositoryOptions configures a Repository.
type RepositoryOptions struct {
	// Types maps declared field types to handlers. A nil registry is
	// replaced by types.NewRegistry().
	Types  *types.Registry
	Logger *slog.Logger
}

// DefaultRepositoryOptions returns the default registry and slog.Default().
func DefaultRepositoryOptions() RepositoryOptions {
	return RepositoryOptions{
		Types:  types.NewRegistry(),
		Logger: slog.Default(),
	}
}

func (o RepositoryOptions) withDefaults() RepositoryOptions {
	if o.Types == nil {
		o.Types = types.NewRegistry()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// SearchOptions pages a search. Zero Limit returns every row.
type SearchOptions struct {
	Limit  uint64
	Offset uint64
}

// Row is one result row keyed by column name.
type Row map[string]any
