// Package services holds the movie library business logic. UserService
// manages library owners; MovieService manages their catalogs. Every public
// operation runs in a single transaction via dbx.WithTx.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/cryptox"
	"github.com/dmitrijs2005/movielib/internal/dbx"
	"github.com/dmitrijs2005/movielib/internal/models"
	"github.com/dmitrijs2005/movielib/internal/repositories/repomanager"
	"github.com/dmitrijs2005/movielib/internal/repositories/users"
)

// UserService creates, authenticates, lists and deletes users.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewUserService constructs a UserService over the store.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// CreateUser registers a new user. A taken name yields common.ErrAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, userName string, password []byte) (*models.User, error) {
	if err := models.ValidateCredentials(userName, password); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByUserName(ctx, userName)
		if err == nil {
			return common.ErrAlreadyExists
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		created, err = repo.Create(ctx, &models.User{UserName: userName, PasswordHash: hash})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Authenticate reports whether the credentials are valid. Unknown users and
// wrong passwords both yield false without an error. Legacy hashes are
// upgraded on success.
func (s *UserService) Authenticate(ctx context.Context, userName string, password []byte) (bool, error) {
	var ok bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByUserName(ctx, userName)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil
			}
			return err
		}

		ok, err = cryptox.VerifyPassword(user.PasswordHash, password)
		if err != nil || !ok {
			ok = false
			return nil
		}

		if cryptox.NeedsRehash(user.PasswordHash) {
			hash, err := cryptox.HashPassword(password)
			if err != nil {
				return fmt.Errorf("rehash password: %w", err)
			}
			return repo.UpdatePasswordHash(ctx, user.ID, hash)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ListUsers returns every user in creation order.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	var list []models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Users(tx).List(ctx)
		return err
	})
	return list, err
}

// DeleteUser removes the user and every movie they own.
func (s *UserService) DeleteUser(ctx context.Context, userName string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByUserName(ctx, userName)
		if err != nil {
			return err
		}
		if _, err := s.repomanager.Movies(tx).DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return repo.DeleteByID(ctx, user.ID)
	})
}

// GetOrCreate returns the named user, creating one without a password when
// absent.
func (s *UserService) GetOrCreate(ctx context.Context, userName string) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = getOrCreate(ctx, s.repomanager.Users(tx), userName)
		return err
	})
	return user, err
}

// Exists reports whether a user with that name is registered.
func (s *UserService) Exists(ctx context.Context, userName string) (bool, error) {
	var found bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Users(tx).GetByUserName(ctx, userName)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		found = err == nil
		return err
	})
	return found, err
}

func getOrCreate(ctx context.Context, repo users.Repository, userName string) (*models.User, error) {
	if err := models.ValidateUserName(userName); err != nil {
		return nil, err
	}

	user, err := repo.GetByUserName(ctx, userName)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return repo.Create(ctx, &models.User{UserName: userName})
}
