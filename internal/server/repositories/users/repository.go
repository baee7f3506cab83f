// Package users persists identity records. Uniqueness of username and
// email is enforced by the store itself; callers may pre-check for nicer
// error messages but must treat the store as the source of truth.
package users

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

var (
	// ErrDuplicateUsername and ErrDuplicateEmail signal a violated
	// uniqueness constraint; they also wrap common.ErrorAlreadyExists
	// semantics at the service layer.
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
)

type Repository interface {
	// Create persists user and returns it with ID and CreatedAt filled in.
	// A username or email collision yields ErrDuplicateUsername or
	// ErrDuplicateEmail; concurrent colliding creates must leave exactly
	// one record.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Delete removes the identity. Outstanding tokens referencing it keep
	// verifying; resolution of the subject fails with common.ErrorNotFound.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of registered identities.
	Count(ctx context.Context) (int64, error)
}
