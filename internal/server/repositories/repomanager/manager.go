// Package repomanager opens the persisted user store, applies the embedded
// goose migrations, and vends the repository bound to it. The backend is
// selected from the storage location: a postgres:// DSN uses the pgx driver,
// anything else is treated as a SQLite file path.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/dmitrijs2005/authn/internal/server/migrations"
	"github.com/dmitrijs2005/authn/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Manager owns the database handle and the repositories bound to it.
type Manager struct {
	db    *sql.DB
	users users.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects to the storage named by location, caps the pool at a single
// persistent connection (store access is serialized by design), and brings
// the schema up to date.
func Open(ctx context.Context, location string) (*Manager, error) {
	driver, dsn, dialect := resolve(location)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	m := &Manager{db: db}
	if driver == "pgx" {
		m.users = users.NewPostgresRepository(db)
	} else {
		m.users = users.NewSQLiteRepository(db)
	}

	return m, nil
}

// Users returns the credential store repository.
func (m *Manager) Users() users.Repository {
	return m.users
}

// Close releases the database handle.
func (m *Manager) Close() error {
	return m.db.Close()
}

func resolve(location string) (driver, dsn, dialect string) {
	if strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") {
		return "pgx", location, "pgx"
	}

	dsn = location
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if !strings.Contains(dsn, "?") {
		// referential integrity stays on for every connection
		dsn += "?_pragma=foreign_keys(1)"
	}
	return "sqlite", dsn, "sqlite3"
}
