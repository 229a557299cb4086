package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gonum.org/v1/gonum/stat"
)

// randIntN is a seam for picking a random movie.
var randIntN = rand.IntN

// Stats summarises the ratings of a library.
type Stats struct {
	Count  int
	Mean   float64
	Median float64
	Best   []models.Movie
	Worst  []models.Movie
}

// Stats computes rating statistics; an empty library yields common.ErrNotFound.
func (s *MovieService) Stats(ctx context.Context, owner string) (*Stats, error) {
	list, err := s.ListMovies(ctx, owner)
	if err != nil {
		return nil, err
	}
	return ComputeStats(list)
}

// ComputeStats derives Stats from movies. Mean and median are rounded to one
// decimal; Best and Worst hold every movie tied at the extreme rating.
func ComputeStats(list []models.Movie) (*Stats, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no movies in the library", common.ErrNotFound)
	}

	ratings := make([]float64, len(list))
	for i, m := range list {
		ratings[i] = m.Rating
	}

	st := &Stats{
		Count:  len(list),
		Mean:   round1(stat.Mean(ratings, nil)),
		Median: round1(median(ratings)),
	}

	hi, lo := slices.Max(ratings), slices.Min(ratings)
	for _, m := range list {
		if m.Rating == hi {
			st.Best = append(st.Best, m)
		}
		if m.Rating == lo {
			st.Worst = append(st.Worst, m)
		}
	}
	return st, nil
}

// median averages the two middle values for even-length input.
func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RandomMovie picks one of the owner's movies uniformly.
func (s *MovieService) RandomMovie(ctx context.Context, owner string) (*models.Movie, error) {
	list, err := s.ListMovies(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no movies available", common.ErrNotFound)
	}
	m := list[randIntN(len(list))]
	return &m, nil
}

// SortedByRating returns the owner's movies, highest rating first. Ties keep
// insertion order.
func (s *MovieService) SortedByRating(ctx context.Context, owner string) ([]models.Movie, error) {
	list, err := s.ListMovies(ctx, owner)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Rating > list[j].Rating })
	return list, nil
}

// Suggest returns up to limit of the owner's movies whose titles are closest
// to needle by edit distance.
func (s *MovieService) Suggest(ctx context.Context, owner string, needle string, limit int) ([]models.Movie, error) {
	list, err := s.ListMovies(ctx, owner)
	if err != nil {
		return nil, err
	}
	return Closest(list, needle, limit), nil
}

// Closest ranks movies by case-insensitive Levenshtein distance between
// needle and title.
func Closest(list []models.Movie, needle string, limit int) []models.Movie {
	needle = strings.ToLower(strings.TrimSpace(needle))

	type ranked struct {
		movie models.Movie
		dist  int
	}
	rs := make([]ranked, 0, len(list))
	for _, m := range list {
		rs = append(rs, ranked{movie: m, dist: fuzzy.LevenshteinDistance(needle, strings.ToLower(m.Title))})
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].dist < rs[j].dist })

	if limit > len(rs) || limit < 0 {
		limit = len(rs)
	}
	out := make([]models.Movie, 0, limit)
	for _, r := range rs[:limit] {
		out = append(out, r.movie)
	}
	return out
}
