package movies

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/dbx"
	"github.com/dmitrijs2005/movielib/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func ptr[T any](v T) *T { return &v }

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
PRAGMA foreign_keys = ON;
CREATE TABLE users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT ''
);
CREATE TABLE movies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  year INTEGER NOT NULL,
  rating REAL NOT NULL DEFAULT 0,
  director TEXT NOT NULL DEFAULT 'Unknown',
  cover_art TEXT NOT NULL DEFAULT 'Missing',
  link TEXT,
  user_id INTEGER REFERENCES users(id) ON DELETE CASCADE
);
CREATE UNIQUE INDEX movies_title_year_user_idx ON movies (title, year, user_id);
INSERT INTO users (id, username) VALUES (1, 'alice'), (2, 'bob');
`)
	require.NoError(t, err)
	return db
}

func seed(t *testing.T, r *SQLRepository, userID *int64, title string, year int, rating float64) *models.Movie {
	t.Helper()
	m, err := r.Create(context.Background(), &models.Movie{
		Title: title, Year: year, Rating: rating,
		Director: models.DefaultDirector, CoverArt: models.DefaultCoverArt, UserID: userID,
	})
	require.NoError(t, err)
	return m
}

func TestCreate_AndListScoped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	alice, bob := ptr(int64(1)), ptr(int64(2))
	seed(t, r, alice, "Matrix", 1999, 8.5)
	seed(t, r, bob, "Alien", 1979, 8.4)

	got, err := r.List(ctx, models.Scope{UserID: alice})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Matrix", got[0].Title)
	require.NotNil(t, got[0].UserID)
	assert.Equal(t, int64(1), *got[0].UserID)
	assert.Equal(t, "", got[0].Link)

	all, err := r.List(ctx, models.Unscoped)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreate_DuplicateForSameOwner(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	alice := ptr(int64(1))
	seed(t, r, alice, "Matrix", 1999, 8.5)

	_, err := r.Create(ctx, &models.Movie{Title: "Matrix", Year: 1999, Director: "x", CoverArt: "y", UserID: alice})
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	// a different owner may hold the same pair
	seed(t, r, ptr(int64(2)), "Matrix", 1999, 7)
}

func TestCreate_UnknownOwnerViolatesForeignKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)

	_, err := r.Create(context.Background(), &models.Movie{Title: "X", Year: 2000, Director: "d", CoverArt: "c", UserID: ptr(int64(99))})
	require.Error(t, err)
}

func TestExists(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	alice := ptr(int64(1))
	seed(t, r, alice, "Matrix", 1999, 8.5)

	ok, err := r.Exists(ctx, models.Scope{UserID: alice}, "Matrix", 1999)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Exists(ctx, models.Scope{UserID: ptr(int64(2))}, "Matrix", 1999)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Exists(ctx, models.Scope{UserID: alice}, "Matrix", 2000)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindFirst_LowestIDAndYear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	alice := ptr(int64(1))
	first := seed(t, r, alice, "Dune", 1984, 6.3)
	second := seed(t, r, alice, "Dune", 2021, 8.0)

	got, err := r.FindFirst(ctx, models.Scope{UserID: alice}, models.MovieRef{Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = r.FindFirst(ctx, models.Scope{UserID: alice}, models.MovieRef{Title: "Dune", Year: ptr(2021)})
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = r.FindFirst(ctx, models.Scope{UserID: ptr(int64(2))}, models.MovieRef{Title: "Dune"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_AndDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	alice := ptr(int64(1))
	m := seed(t, r, alice, "Matrix", 1999, 8.5)

	m.Rating = 9.1
	m.Link = "https://www.imdb.com/title/tt0133093/"
	require.NoError(t, r.Update(ctx, m))

	got, err := r.FindFirst(ctx, models.Scope{UserID: alice}, models.MovieRef{Title: "Matrix"})
	require.NoError(t, err)
	assert.Equal(t, 9.1, got.Rating)
	assert.Equal(t, m.Link, got.Link)
	assert.Equal(t, 1999, got.Year)

	require.NoError(t, r.DeleteByID(ctx, m.ID))
	require.ErrorIs(t, r.DeleteByID(ctx, m.ID), common.ErrNotFound)
	require.ErrorIs(t, r.Update(ctx, m), common.ErrNotFound)
}

func TestDeleteByUser(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	alice := ptr(int64(1))
	seed(t, r, alice, "A", 2000, 1)
	seed(t, r, alice, "B", 2001, 2)
	seed(t, r, ptr(int64(2)), "C", 2002, 3)

	n, err := r.DeleteByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := r.List(ctx, models.Unscoped)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "C", all[0].Title)
}

func TestSearchTitle_CaseInsensitiveAndLiteral(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	alice := ptr(int64(1))
	seed(t, r, alice, "The Matrix", 1999, 8.7)
	seed(t, r, alice, "Matrix Reloaded", 2003, 7.2)
	seed(t, r, alice, "100% Wolf", 2020, 5)
	seed(t, r, ptr(int64(2)), "Matrix Resurrections", 2021, 5.7)

	got, err := r.SearchTitle(ctx, models.Scope{UserID: alice}, "matrix")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "The Matrix", got[0].Title)
	assert.Equal(t, "Matrix Reloaded", got[1].Title)

	got, err = r.SearchTitle(ctx, models.Scope{UserID: alice}, "0%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% Wolf", got[0].Title)

	got, err = r.SearchTitle(ctx, models.Scope{UserID: alice}, "_")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchTitle_NonASCIICase(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	bob := ptr(int64(2))
	seed(t, r, bob, "ÉCLAIR ÜBER ALLES", 2001, 6.5)
	seed(t, r, bob, "Amélie", 2001, 8.3)

	for _, needle := range []string{"éclair", "ÉCLAIR", "über", "AMÉLIE"} {
		got, err := r.SearchTitle(ctx, models.Scope{UserID: bob}, needle)
		require.NoError(t, err, needle)
		assert.Len(t, got, 1, needle)
	}

	got, err := r.SearchTitle(ctx, models.Unscoped, "é")
	require.NoError(t, err)
	assert.Equal(t, []string{"ÉCLAIR ÜBER ALLES", "Amélie"}, titles(got))
}

func TestFilter_Bounds(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db, dbx.DialectSQLite)
	ctx := context.Background()

	alice := ptr(int64(1))
	seed(t, r, alice, "A", 1990, 9.0)
	seed(t, r, alice, "B", 2000, 7.0)
	seed(t, r, alice, "C", 2010, 8.0)
	scope := models.Scope{UserID: alice}

	all, err := r.Filter(ctx, scope, models.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := r.Filter(ctx, scope, models.Filter{MinRating: ptr(8.0)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, titles(got))

	got, err = r.Filter(ctx, scope, models.Filter{MinRating: ptr(8.0), StartYear: ptr(2000)})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, titles(got))

	got, err = r.Filter(ctx, scope, models.Filter{EndYear: ptr(2000)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(got))
}

func titles(ms []models.Movie) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Title)
	}
	return out
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}
