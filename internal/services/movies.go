package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/dbx"
	"github.com/dmitrijs2005/movielib/internal/models"
	"github.com/dmitrijs2005/movielib/internal/repositories/repomanager"
)

// MovieService manages the catalog of one owner at a time. An empty owner
// name addresses the single-user library: movies without an owner, with
// duplicates checked across the whole table.
type MovieService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewMovieService constructs a MovieService over the store.
func NewMovieService(db *sql.DB, m repomanager.RepositoryManager) *MovieService {
	return &MovieService{db: db, repomanager: m}
}

// scopeFor resolves the owner name. found is false when a named owner does
// not exist and create is false.
func (s *MovieService) scopeFor(ctx context.Context, tx dbx.DBTX, owner string, create bool) (scope models.Scope, found bool, err error) {
	if owner == "" {
		return models.Unscoped, true, nil
	}

	repo := s.repomanager.Users(tx)
	var user *models.User
	if create {
		user, err = getOrCreate(ctx, repo, owner)
	} else {
		user, err = repo.GetByUserName(ctx, owner)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Scope{}, false, nil
		}
		return models.Scope{}, false, err
	}
	return models.ScopeOf(user), true, nil
}

// AddMovie stores a movie for owner, creating the owner when needed. When the
// owner already holds (title, year) nothing changes and the result is
// AddSkippedDuplicate with common.ErrAlreadyExists. Any other error comes with
// AddFailed.
func (s *MovieService) AddMovie(ctx context.Context, owner string, n models.NewMovie) (models.AddResult, *models.Movie, error) {
	n.ApplyDefaults()
	if err := models.ValidateTitle(n.Title); err != nil {
		return models.AddFailed, nil, err
	}
	if err := models.ValidateRating(n.Rating); err != nil {
		return models.AddFailed, nil, err
	}

	var created *models.Movie
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		scope, _, err := s.scopeFor(ctx, tx, owner, true)
		if err != nil {
			return err
		}

		repo := s.repomanager.Movies(tx)
		exists, err := repo.Exists(ctx, scope, n.Title, n.Year)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrAlreadyExists
		}

		created, err = repo.Create(ctx, &models.Movie{
			Title:    n.Title,
			Year:     n.Year,
			Rating:   n.Rating,
			Director: n.Director,
			CoverArt: n.CoverArt,
			Link:     n.Link,
			UserID:   scope.UserID,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return models.AddSkippedDuplicate, nil, err
		}
		return models.AddFailed, nil, err
	}
	return models.AddInserted, created, nil
}

// UpdateMovie applies patch to the first movie matching ref.
func (s *MovieService) UpdateMovie(ctx context.Context, owner string, ref models.MovieRef, patch models.MoviePatch) (*models.Movie, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no updates provided", common.ErrValidation)
	}
	if patch.Rating != nil {
		if err := models.ValidateRating(*patch.Rating); err != nil {
			return nil, err
		}
	}

	var updated *models.Movie
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		scope, found, err := s.scopeFor(ctx, tx, owner, false)
		if err != nil {
			return err
		}
		if !found {
			return common.ErrNotFound
		}

		repo := s.repomanager.Movies(tx)
		m, err := repo.FindFirst(ctx, scope, ref)
		if err != nil {
			return err
		}
		// NULL owners escape the unique index, so year moves are checked here.
		if patch.Year != nil && *patch.Year != m.Year {
			taken, err := repo.Exists(ctx, scope, m.Title, *patch.Year)
			if err != nil {
				return err
			}
			if taken {
				return common.ErrAlreadyExists
			}
		}
		patch.Apply(m)
		if err := repo.Update(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveMovie deletes the first movie matching ref.
func (s *MovieService) RemoveMovie(ctx context.Context, owner string, ref models.MovieRef) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		scope, found, err := s.scopeFor(ctx, tx, owner, false)
		if err != nil {
			return err
		}
		if !found {
			return common.ErrNotFound
		}

		repo := s.repomanager.Movies(tx)
		m, err := repo.FindFirst(ctx, scope, ref)
		if err != nil {
			return err
		}
		return repo.DeleteByID(ctx, m.ID)
	})
}

// ListMovies returns the owner's movies.
func (s *MovieService) ListMovies(ctx context.Context, owner string) ([]models.Movie, error) {
	return s.read(ctx, owner, func(ctx context.Context, tx dbx.DBTX, scope models.Scope) ([]models.Movie, error) {
		return s.repomanager.Movies(tx).List(ctx, scope)
	})
}

// FindBySubstring returns the owner's movies whose title contains needle,
// ignoring case.
func (s *MovieService) FindBySubstring(ctx context.Context, owner string, needle string) ([]models.Movie, error) {
	needle = strings.TrimSpace(needle)
	return s.read(ctx, owner, func(ctx context.Context, tx dbx.DBTX, scope models.Scope) ([]models.Movie, error) {
		return s.repomanager.Movies(tx).SearchTitle(ctx, scope, needle)
	})
}

// Filter returns the (title, year, rating) of the owner's movies satisfying
// every bound set in f.
func (s *MovieService) Filter(ctx context.Context, owner string, f models.Filter) ([]models.FilteredMovie, error) {
	list, err := s.read(ctx, owner, func(ctx context.Context, tx dbx.DBTX, scope models.Scope) ([]models.Movie, error) {
		return s.repomanager.Movies(tx).Filter(ctx, scope, f)
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.FilteredMovie, 0, len(list))
	for _, m := range list {
		out = append(out, models.FilteredMovie{Title: m.Title, Year: m.Year, Rating: m.Rating})
	}
	return out, nil
}

// read runs fn in a transaction for the owner's scope. An unknown owner has
// an empty library.
func (s *MovieService) read(ctx context.Context, owner string,
	fn func(ctx context.Context, tx dbx.DBTX, scope models.Scope) ([]models.Movie, error)) ([]models.Movie, error) {

	var list []models.Movie
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		scope, found, err := s.scopeFor(ctx, tx, owner, false)
		if err != nil || !found {
			return err
		}
		list, err = fn(ctx, tx, scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
