package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/movielib/internal/cryptox"
	"github.com/dmitrijs2005/movielib/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	db     *database.Database
	users  *UserService
	movies *MovieService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orig := cryptox.BcryptCost
	cryptox.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { cryptox.BcryptCost = orig })

	d, err := database.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return &fixture{
		db:     d,
		users:  NewUserService(d.DB, d.Repos),
		movies: NewMovieService(d.DB, d.Repos),
	}
}
