package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/movielib/internal/chart"
	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/filex"
	"github.com/dmitrijs2005/movielib/internal/models"
	"github.com/dmitrijs2005/movielib/internal/publish"
	"github.com/dmitrijs2005/movielib/internal/website"
)

const defaultHistogramName = "rating_histogram"

func titles(list []models.Movie) string {
	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.Title
	}
	return strings.Join(names, ", ")
}

// Stats prints average and median rating and the best and worst movies.
func (a *App) Stats(ctx context.Context) error {
	st, err := a.movies.Stats(ctx, a.owner())
	if errors.Is(err, common.ErrNotFound) {
		a.println("No movies in the library.")
		return nil
	}
	if err != nil {
		return err
	}

	a.printf("The average rating is: %s\n", formatRating(st.Mean))
	a.printf("The median rating is: %s\n", formatRating(st.Median))
	a.printf("Best movies (by rating): %s\n", titles(st.Best))
	a.printf("Worst movies (by rating): %s\n", titles(st.Worst))
	return nil
}

// Histogram saves a PNG histogram of the ratings into the output directory.
func (a *App) Histogram(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter filename to save histogram", a.out)
	if err != nil {
		return err
	}

	path, err := filex.OutputPath(a.config.OutputDir, chart.WithPNG(trimmedOr(name, defaultHistogramName)))
	if err != nil {
		return err
	}

	list, err := a.movies.ListMovies(ctx, a.owner())
	if err != nil {
		return err
	}
	ratings := make([]float64, len(list))
	for i, m := range list {
		ratings[i] = m.Rating
	}

	if err := chart.SaveHistogram(ratings, path); err != nil {
		return err
	}
	a.log.Debug(ctx, "histogram saved", "path", path, "movies", len(list))
	a.printf("Histogram saved as %s\n", path)
	return nil
}

func (a *App) galleryTitle() string {
	title := trimmedOr(a.config.GalleryTitle, website.DefaultTitle)
	if a.owner() != "" {
		return a.owner() + "'s " + title
	}
	return title
}

func (a *App) writeWebsite(ctx context.Context) (string, error) {
	list, err := a.movies.ListMovies(ctx, a.owner())
	if err != nil {
		return "", err
	}
	path, err := filex.OutputPath(a.config.OutputDir, website.DefaultFileName)
	if err != nil {
		return "", err
	}
	if err := a.gallery.WriteFile(path, a.galleryTitle(), list); err != nil {
		return "", err
	}
	return path, nil
}

// Website renders the gallery page into the output directory.
func (a *App) Website(ctx context.Context) error {
	path, err := a.writeWebsite(ctx)
	if err != nil {
		return err
	}
	a.printf("Website was generated successfully: %s\n", path)
	return nil
}

// Publish renders the gallery page, uploads it and prints a temporary
// download link.
func (a *App) Publish(ctx context.Context) error {
	if a.publisher == nil || !a.publisher.Enabled() {
		a.println("Publishing is not configured; set s3_bucket first.")
		return nil
	}

	path, err := a.writeWebsite(ctx)
	if err != nil {
		return err
	}

	key := publish.StorageKey(a.owner(), path)
	url, err := a.publisher.Upload(ctx, key, path, "text/html; charset=utf-8")
	if err != nil {
		return err
	}

	a.log.Info(ctx, "gallery published", "owner", a.owner(), "key", key)
	a.printf("Published: %s\n", url)
	a.printf("The link is valid for %s.\n", a.config.PresignTTL)
	return nil
}
