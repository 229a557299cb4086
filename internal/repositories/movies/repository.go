package movies

import (
	"context"

	"github.com/dmitrijs2005/movielib/internal/models"
)

// Repository describes persistence operations for Movie records. Every read
// is restricted to the given scope.
type Repository interface {
	// Create inserts a movie and fills its ID. A row with the same
	// (title, year, owner) yields common.ErrAlreadyExists.
	Create(ctx context.Context, movie *models.Movie) (*models.Movie, error)

	// Exists reports whether the scope already holds (title, year).
	Exists(ctx context.Context, scope models.Scope, title string, year int) (bool, error)

	// FindFirst returns the lowest-id movie matching the reference or
	// common.ErrNotFound.
	FindFirst(ctx context.Context, scope models.Scope, ref models.MovieRef) (*models.Movie, error)

	// Update overwrites the mutable fields of the movie with the given ID.
	Update(ctx context.Context, movie *models.Movie) error

	// DeleteByID removes a movie; common.ErrNotFound if nothing was deleted.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteByUser removes every movie owned by the user.
	DeleteByUser(ctx context.Context, userID int64) (int64, error)

	// List returns the movies in the scope in id order.
	List(ctx context.Context, scope models.Scope) ([]models.Movie, error)

	// SearchTitle returns movies whose title contains needle, ignoring case.
	SearchTitle(ctx context.Context, scope models.Scope, needle string) ([]models.Movie, error)

	// Filter returns movies satisfying every bound set in f.
	Filter(ctx context.Context, scope models.Scope, f models.Filter) ([]models.Movie, error)
}
