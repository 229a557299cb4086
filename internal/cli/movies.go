package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/models"
)

const suggestLimit = 3

// List prints every movie of the current owner.
func (a *App) List(ctx context.Context) error {
	list, err := a.movies.ListMovies(ctx, a.owner())
	if err != nil {
		return err
	}
	a.printf("%d movies in total\n", len(list))
	for _, m := range list {
		a.printMovieLine(m)
	}
	return nil
}

// Add searches OMDb, lets the user pick a hit and stores its details.
func (a *App) Add(ctx context.Context) error {
	query, err := getSimpleText(a.reader, "What movie do you want to add?", a.out)
	if err != nil {
		return err
	}
	if query == "" {
		a.println("Insert a valid query.")
		return nil
	}

	hits, err := a.metadata.Search(ctx, query)
	if errors.Is(err, common.ErrNotFound) {
		a.println("No movies found.")
		return nil
	}
	if err != nil {
		return err
	}

	hit, err := a.pickHit(hits)
	if err != nil || hit == nil {
		return err
	}

	cand, err := a.metadata.DetailsByID(ctx, hit.ExternalID)
	if err != nil {
		return err
	}
	if cand.Rating == nil {
		a.printf("Rating not found for '%s', defaulting to 0.\n", cand.Title)
	}

	res, movie, err := a.movies.AddMovie(ctx, a.owner(), cand.ToNewMovie())
	switch {
	case res == models.AddSkippedDuplicate:
		a.printf("Movie '%s' (%d) is already in the library.\n", cand.Title, cand.Year)
		return nil
	case errors.Is(err, common.ErrValidation):
		a.println(err)
		return nil
	case err != nil:
		return err
	}

	a.log.Info(ctx, "movie added", "owner", a.owner(), "title", movie.Title, "year", movie.Year)
	a.printf("Movie '%s' added successfully.\n", movie.Title)
	return nil
}

func (a *App) pickHit(hits []models.SearchHit) (*models.SearchHit, error) {
	a.println("Search results:")
	for i, h := range hits {
		a.printf("%d. %s (%s)\n", i+1, h.Title, h.Year)
	}
	a.println("0. None of these")

	for {
		s, err := getSimpleText(a.reader, "Choose a movie by number", a.out)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > len(hits) {
			a.printf("Please enter a number between 0 and %d.\n", len(hits))
			continue
		}
		if n == 0 {
			return nil, nil
		}
		return &hits[n-1], nil
	}
}

func (a *App) readRef(prompt string) (models.MovieRef, bool, error) {
	title, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return models.MovieRef{}, false, err
	}
	if title == "" {
		a.println("Title must not be empty.")
		return models.MovieRef{}, false, nil
	}
	year, err := GetOptional(a.reader, "Year of release (Enter for the first match)", a.out, models.ParseYear)
	if err != nil {
		return models.MovieRef{}, false, err
	}
	return models.MovieRef{Title: title, Year: year}, true, nil
}

func describeRef(ref models.MovieRef) string {
	if ref.Year != nil {
		return fmt.Sprintf("'%s' (%d)", ref.Title, *ref.Year)
	}
	return fmt.Sprintf("'%s'", ref.Title)
}

// Delete removes the first movie matching the entered title.
func (a *App) Delete(ctx context.Context) error {
	ref, ok, err := a.readRef("Enter movie name to delete")
	if err != nil || !ok {
		return err
	}

	if err := a.movies.RemoveMovie(ctx, a.owner(), ref); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			a.printf("Movie %s not found.\n", describeRef(ref))
			return nil
		}
		return err
	}

	a.log.Info(ctx, "movie deleted", "owner", a.owner(), "title", ref.Title)
	a.printf("Movie %s deleted.\n", describeRef(ref))
	return nil
}

// Update changes the rating, year or director of a movie; every field
// can be skipped with Enter.
func (a *App) Update(ctx context.Context) error {
	ref, ok, err := a.readRef("Enter movie to update")
	if err != nil || !ok {
		return err
	}

	var patch models.MoviePatch
	if patch.Rating, err = GetOptional(a.reader, "Enter rating (0-10) or press Enter to skip this field", a.out, models.ParseRating); err != nil {
		return err
	}
	if patch.Year, err = GetOptional(a.reader, "Enter year or press Enter to skip this field", a.out, models.ParseYear); err != nil {
		return err
	}
	director, err := getSimpleText(a.reader, "Enter director or press Enter to skip this field", a.out)
	if err != nil {
		return err
	}
	if director != "" {
		patch.Director = &director
	}

	if patch.IsEmpty() {
		a.println("No updates provided.")
		return nil
	}

	m, err := a.movies.UpdateMovie(ctx, a.owner(), ref, patch)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a.printf("Movie %s not found.\n", describeRef(ref))
		return nil
	case errors.Is(err, common.ErrAlreadyExists):
		a.printf("Another '%s' from that year is already in the library.\n", ref.Title)
		return nil
	case err != nil:
		return err
	}

	a.log.Info(ctx, "movie updated", "owner", a.owner(), "title", m.Title)
	a.printf("Movie '%s' updated successfully.\n", m.Title)
	return nil
}

// Search prints movies whose title contains the entered text, or the
// closest titles when nothing matches.
func (a *App) Search(ctx context.Context) error {
	needle, err := getSimpleText(a.reader, "Enter part of the movie name to search", a.out)
	if err != nil {
		return err
	}

	found, err := a.movies.FindBySubstring(ctx, a.owner(), needle)
	if err != nil {
		return err
	}
	if len(found) > 0 {
		for _, m := range found {
			a.printf("%s, Rating: %s, Year: %d\n", m.Title, formatRating(m.Rating), m.Year)
		}
		return nil
	}

	near, err := a.movies.Suggest(ctx, a.owner(), needle, suggestLimit)
	if err != nil {
		return err
	}
	if len(near) == 0 {
		a.println("No movies found.")
		return nil
	}
	a.println("Did you mean:")
	for _, m := range near {
		a.printf("%s, Rating: %s, Year: %d\n", m.Title, formatRating(m.Rating), m.Year)
	}
	return nil
}

// Sorted prints the movies from best to worst rating.
func (a *App) Sorted(ctx context.Context) error {
	list, err := a.movies.SortedByRating(ctx, a.owner())
	if err != nil {
		return err
	}
	for _, m := range list {
		a.printf("%s, %s\n", m.Title, formatRating(m.Rating))
	}
	return nil
}

// Random prints one movie picked at random.
func (a *App) Random(ctx context.Context) error {
	m, err := a.movies.RandomMovie(ctx, a.owner())
	if errors.Is(err, common.ErrNotFound) {
		a.println("No movies available.")
		return nil
	}
	if err != nil {
		return err
	}
	a.printf("Random Movie Pick: %s (%d) - Rating: %s\n", m.Title, m.Year, formatRating(m.Rating))
	return nil
}

// Filter asks for optional bounds, re-prompting on invalid input, and
// prints the matching movies.
func (a *App) Filter(ctx context.Context) error {
	var (
		f   models.Filter
		err error
	)
	if f.MinRating, err = GetOptional(a.reader, "Enter minimum rating (Enter for none)", a.out, models.ParseRating); err != nil {
		return err
	}
	if f.StartYear, err = GetOptional(a.reader, "Enter start year (Enter for none)", a.out, models.ParseYear); err != nil {
		return err
	}
	if f.EndYear, err = GetOptional(a.reader, "Enter end year (Enter for none)", a.out, models.ParseYear); err != nil {
		return err
	}

	list, err := a.movies.Filter(ctx, a.owner(), f)
	if err != nil {
		return err
	}

	a.println("Filtered Movies:")
	if len(list) == 0 {
		a.println("  (none)")
	}
	for _, m := range list {
		a.printf("%s (%d): %s\n", m.Title, m.Year, formatRating(m.Rating))
	}
	return nil
}

func trimmedOr(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
