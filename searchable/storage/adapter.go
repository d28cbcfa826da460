package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Adapter abstracts database-specific connection handling and SQL dialect.
type Adapter interface {
	Backend() Backend
	PlaceholderFormat() sq.PlaceholderFormat
	// Target identifies the database for logs, without credentials.
	Target() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error
}
