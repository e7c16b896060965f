package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		location string
		driver   string
		dsn      string
		dialect  string
	}{
		{"postgres://u:p@localhost/authn", "pgx", "postgres://u:p@localhost/authn", "pgx"},
		{"postgresql://u:p@localhost/authn", "pgx", "postgresql://u:p@localhost/authn", "pgx"},
		{"authn.db", "sqlite", "file:authn.db?_pragma=foreign_keys(1)", "sqlite3"},
		{"/var/lib/authn/users.db", "sqlite", "file:/var/lib/authn/users.db?_pragma=foreign_keys(1)", "sqlite3"},
		{"file:custom.db?mode=ro", "sqlite", "file:custom.db?mode=ro", "sqlite3"},
	}

	for _, tc := range cases {
		driver, dsn, dialect := resolve(tc.location)
		assert.Equal(t, tc.driver, driver, tc.location)
		assert.Equal(t, tc.dsn, dsn, tc.location)
		assert.Equal(t, tc.dialect, dialect, tc.location)
	}
}

// Open against a fresh SQLite file must apply migrations: the users table
// exists and the repository is usable immediately.
func TestOpen_SQLiteMigrates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fresh.db")

	m, err := Open(ctx, path)
	require.NoError(t, err)
	defer m.Close()

	repo := m.Users()
	require.NoError(t, repo.Insert(ctx, "alice", "hash"))

	user, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), user.TokenVersion)
}

// Reopening an already-migrated store is a no-op for the schema and keeps
// existing rows.
func TestOpen_SQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	m, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, m.Users().Insert(ctx, "bob", "hash"))
	require.NoError(t, m.Close())

	m, err = Open(ctx, path)
	require.NoError(t, err)
	defer m.Close()

	user, err := m.Users().GetByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Name)
}

func TestOpen_MigrationFailure(t *testing.T) {
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("migration exploded")
	}
	defer func() {
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return goose.UpContext(ctx, db, dir, opts...)
		}
	}()

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "bad.db"))
	assert.ErrorIs(t, err, common.ErrStorage)
}
