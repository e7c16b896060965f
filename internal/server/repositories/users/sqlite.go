package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/dmitrijs2005/authn/internal/dbx"
	"github.com/dmitrijs2005/authn/internal/server/models"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRepository stores user records in a SQLite file. All operations take
// one exclusive lock, fully serializing store access: correctness over
// throughput, acceptable because each statement is cheap next to network
// latency.
type SQLiteRepository struct {
	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// fieldMap pairs the user entity's fields with their column names for
// column-name-driven scanning.
func fieldMap(u *models.User) dbx.FieldMap {
	return dbx.FieldMap{
		"name":          &u.Name,
		"pass_hash":     &u.PassHash,
		"token_version": &u.TokenVersion,
	}
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `SELECT * FROM users WHERE name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}
		return nil, common.ErrNotFound
	}

	user := &models.User{}
	if err := dbx.ScanRow(rows, fieldMap(user)); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return user, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, name, passHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, pass_hash) VALUES (?, ?)`, name, passHash)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", common.ErrDuplicateName, name)
		}
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return nil
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, name, passHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET pass_hash = ? WHERE name = ?`, passHash, name)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return checkAffected(res, name)
}

func (r *SQLiteRepository) IncrementTokenVersion(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET token_version = token_version + 1 WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return checkAffected(res, name)
}

// checkAffected maps a zero-row UPDATE to common.ErrNotFound.
func checkAffected(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", common.ErrNotFound, name)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
