package users

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.db")
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE users (
		name TEXT PRIMARY KEY,
		pass_hash TEXT NOT NULL,
		token_version INTEGER NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)

	return NewSQLiteRepository(db)
}

func TestSQLiteRepository_InsertAndGet(t *testing.T) {
	t.Parallel()

	repo := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "alice", "$argon2id$hash"))

	user, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "$argon2id$hash", user.PassHash)
	assert.Equal(t, uint32(0), user.TokenVersion)
}

func TestSQLiteRepository_GetByName_NotFound(t *testing.T) {
	t.Parallel()

	repo := setupSQLite(t)

	_, err := repo.GetByName(context.Background(), "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_Insert_Duplicate(t *testing.T) {
	t.Parallel()

	repo := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "alice", "h1"))

	err := repo.Insert(ctx, "alice", "h2")
	assert.ErrorIs(t, err, common.ErrDuplicateName)

	// the original record is intact
	user, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", user.PassHash)
}

func TestSQLiteRepository_UpdatePassword(t *testing.T) {
	t.Parallel()

	repo := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "alice", "old"))
	require.NoError(t, repo.UpdatePassword(ctx, "alice", "new"))

	user, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new", user.PassHash)
}

func TestSQLiteRepository_UpdatePassword_NotFound(t *testing.T) {
	t.Parallel()

	repo := setupSQLite(t)

	err := repo.UpdatePassword(context.Background(), "nobody", "h")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_IncrementTokenVersion(t *testing.T) {
	t.Parallel()

	repo := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "alice", "h"))
	require.NoError(t, repo.IncrementTokenVersion(ctx, "alice"))
	require.NoError(t, repo.IncrementTokenVersion(ctx, "alice"))

	user, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), user.TokenVersion)
}

func TestSQLiteRepository_IncrementTokenVersion_NotFound(t *testing.T) {
	t.Parallel()

	repo := setupSQLite(t)

	err := repo.IncrementTokenVersion(context.Background(), "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// Concurrent increments must each land: N racing revocations leave the
// version at exactly N.
func TestSQLiteRepository_IncrementTokenVersion_Concurrent(t *testing.T) {
	t.Parallel()

	repo := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "alice", "h"))

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.IncrementTokenVersion(ctx, "alice")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	user, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(n), user.TokenVersion)
}
