// Package users contains the credential store: repository implementations
// for the persisted user records.
package users

import (
	"context"

	"github.com/dmitrijs2005/authn/internal/server/models"
)

// Repository is the credential store contract. Implementations serialize
// access to the underlying connection; callers never see lock contention as
// an error, only as waiting.
type Repository interface {
	// GetByName returns the record or common.ErrNotFound.
	GetByName(ctx context.Context, name string) (*models.User, error)

	// Insert creates a record with token_version at zero. A name collision
	// is detected through the uniqueness constraint, not a pre-check, and
	// reported as common.ErrDuplicateName.
	Insert(ctx context.Context, name, passHash string) error

	// UpdatePassword replaces the stored hash; common.ErrNotFound when no
	// record matches.
	UpdatePassword(ctx context.Context, name, passHash string) error

	// IncrementTokenVersion atomically bumps token_version by one,
	// invalidating all outstanding tokens. common.ErrNotFound when no
	// record matches.
	IncrementTokenVersion(ctx context.Context, name string) error
}
