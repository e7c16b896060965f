package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/dmitrijs2005/authn/internal/dbx"
	"github.com/dmitrijs2005/authn/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresRepository stores user records in PostgreSQL via the pgx stdlib
// driver. Serialization is enforced by the connection pool being capped at a
// single connection (see repomanager).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT * FROM users WHERE name = $1`, name)
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

func (r *PostgresRepository) Insert(ctx context.Context, name, passHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, pass_hash) VALUES ($1, $2)`, name, passHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", common.ErrDuplicateName, name)
		}
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, name, passHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET pass_hash = $1 WHERE name = $2`, passHash, name)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return checkAffected(res, name)
}

func (r *PostgresRepository) IncrementTokenVersion(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET token_version = token_version + 1 WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return checkAffected(res, name)
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*SQLiteRepository)(nil)
