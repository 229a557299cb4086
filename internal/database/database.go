// Package database opens the movie library store, selects the SQL dialect
// from the DSN and brings the schema up to date.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/dbx"
	"github.com/dmitrijs2005/movielib/internal/repositories/repomanager"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Database is an open store together with the repositories for its dialect.
type Database struct {
	DB      *sql.DB
	Dialect dbx.Dialect
	Repos   repomanager.RepositoryManager
}

// DialectFromDSN picks PostgreSQL for postgres:// URLs and SQLite otherwise.
func DialectFromDSN(dsn string) dbx.Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return dbx.DialectPostgres
	}
	return dbx.DialectSQLite
}

// InitDatabase opens the store, applies connection settings and runs the
// migrations. Any failure is reported as common.ErrStoreUnavailable.
func InitDatabase(ctx context.Context, dsn string) (*Database, error) {
	dialect := DialectFromDSN(dsn)

	db, err := openDB(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", common.ErrStoreUnavailable, err)
	}

	if dialect == dbx.DialectSQLite {
		// a single connection keeps per-connection pragmas and :memory: stores consistent
		db.SetMaxOpenConns(1)
		for _, p := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("%w: pragma %q: %v", common.ErrStoreUnavailable, p, err)
			}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %v", common.ErrStoreUnavailable, err)
	}

	repos := repomanager.NewSQLRepositoryManager(dialect)
	if err := repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", common.ErrStoreUnavailable, err)
	}

	return &Database{DB: db, Dialect: dialect, Repos: repos}, nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	return d.DB.Close()
}
