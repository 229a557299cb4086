package users

import (
	"context"

	"github.com/dmitrijs2005/movielib/internal/models"
)

// Repository describes persistence operations for User records.
type Repository interface {
	// Create inserts a user and fills its ID. A taken username yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUserName returns the user with the exact (case-sensitive) name or
	// common.ErrNotFound.
	GetByUserName(ctx context.Context, userName string) (*models.User, error)

	// List returns all users in creation order.
	List(ctx context.Context) ([]models.User, error)

	// DeleteByID removes a user; common.ErrNotFound if nothing was deleted.
	DeleteByID(ctx context.Context, id int64) error

	// UpdatePasswordHash replaces the stored hash of the given user.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
