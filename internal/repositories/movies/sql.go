// Package movies provides the persistence layer for catalog entries.
//
// Queries are written once with '?' placeholders and rebound for the active
// dialect. A nil scope user addresses the whole table; otherwise every query
// is restricted to that owner.
package movies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/dbx"
	"github.com/dmitrijs2005/movielib/internal/models"
)

const movieColumns = `id, title, year, rating, director, cover_art, link, user_id`

// SQLRepository implements Repository over a DBTX for either dialect.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// where joins the scope condition with extra conditions.
func where(scope models.Scope, conds []string, args []any) (string, []any) {
	if scope.UserID != nil {
		conds = append([]string{"user_id = ?"}, conds...)
		args = append([]any{*scope.UserID}, args...)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *SQLRepository) Create(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	query := r.dialect.Rebind(
		`INSERT INTO movies (title, year, rating, director, cover_art, link, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`)

	err := r.db.QueryRowContext(ctx, query,
		m.Title, m.Year, m.Rating, m.Director, m.CoverArt, nullString(m.Link), nullInt64(m.UserID)).Scan(&m.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *SQLRepository) Exists(ctx context.Context, scope models.Scope, title string, year int) (bool, error) {
	cond, args := where(scope, []string{"title = ?", "year = ?"}, []any{title, year})
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM movies` + cond)

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) FindFirst(ctx context.Context, scope models.Scope, ref models.MovieRef) (*models.Movie, error) {
	conds := []string{"title = ?"}
	args := []any{ref.Title}
	if ref.Year != nil {
		conds = append(conds, "year = ?")
		args = append(args, *ref.Year)
	}
	cond, args := where(scope, conds, args)
	query := r.dialect.Rebind(`SELECT ` + movieColumns + ` FROM movies` + cond + ` ORDER BY id LIMIT 1`)

	m, err := scanMovie(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *SQLRepository) Update(ctx context.Context, m *models.Movie) error {
	query := r.dialect.Rebind(
		`UPDATE movies SET year = ?, rating = ?, director = ?, cover_art = ?, link = ?
		 WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, m.Year, m.Rating, m.Director, m.CoverArt, nullString(m.Link), m.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM movies WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM movies WHERE user_id = ?`), userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) List(ctx context.Context, scope models.Scope) ([]models.Movie, error) {
	cond, args := where(scope, nil, nil)
	return r.query(ctx, `SELECT `+movieColumns+` FROM movies`+cond+` ORDER BY id`, args...)
}

// SearchTitle on SQLite filters in Go: its LOWER only folds ASCII letters.
func (r *SQLRepository) SearchTitle(ctx context.Context, scope models.Scope, needle string) ([]models.Movie, error) {
	if r.dialect != dbx.DialectPostgres {
		all, err := r.List(ctx, scope)
		if err != nil {
			return nil, err
		}
		lowered := strings.ToLower(needle)
		var result []models.Movie
		for _, m := range all {
			if strings.Contains(strings.ToLower(m.Title), lowered) {
				result = append(result, m)
			}
		}
		return result, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(needle)) + "%"
	cond, args := where(scope, []string{`LOWER(title) LIKE ? ESCAPE '\'`}, []any{pattern})
	return r.query(ctx, `SELECT `+movieColumns+` FROM movies`+cond+` ORDER BY id`, args...)
}

func (r *SQLRepository) Filter(ctx context.Context, scope models.Scope, f models.Filter) ([]models.Movie, error) {
	var conds []string
	var args []any
	if f.MinRating != nil {
		conds = append(conds, "rating >= ?")
		args = append(args, *f.MinRating)
	}
	if f.StartYear != nil {
		conds = append(conds, "year >= ?")
		args = append(args, *f.StartYear)
	}
	if f.EndYear != nil {
		conds = append(conds, "year <= ?")
		args = append(args, *f.EndYear)
	}
	cond, args := where(scope, conds, args)
	return r.query(ctx, `SELECT `+movieColumns+` FROM movies`+cond+` ORDER BY id`, args...)
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(s scanner) (*models.Movie, error) {
	var (
		m      models.Movie
		link   sql.NullString
		userID sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.Title, &m.Year, &m.Rating, &m.Director, &m.CoverArt, &link, &userID); err != nil {
		return nil, err
	}
	m.Link = link.String
	if userID.Valid {
		id := userID.Int64
		m.UserID = &id
	}
	return &m, nil
}

// escapeLike escapes LIKE wildcards so needle matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
