package models

import "strings"

const (
	DefaultDirector = "Unknown"
	DefaultCoverArt = "Missing"
)

// Movie is one catalog entry. UserID is nil for movies of the single-user
// library.
type Movie struct {
	ID       int64
	Title    string
	Year     int
	Rating   float64
	Director string
	CoverArt string
	Link     string
	UserID   *int64
}

// NewMovie carries the fields accepted when adding a movie. Empty Director
// and CoverArt fall back to the defaults.
type NewMovie struct {
	Title    string
	Year     int
	Rating   float64
	Director string
	CoverArt string
	Link     string
}

// ApplyDefaults fills the optional fields with their placeholders.
func (n *NewMovie) ApplyDefaults() {
	n.Title = strings.TrimSpace(n.Title)
	if strings.TrimSpace(n.Director) == "" {
		n.Director = DefaultDirector
	}
	if strings.TrimSpace(n.CoverArt) == "" {
		n.CoverArt = DefaultCoverArt
	}
}

// MovieRef identifies the movie to update or remove. Without a year the
// first movie with that title (lowest id) is chosen.
type MovieRef struct {
	Title string
	Year  *int
}

// MoviePatch lists the fields to change; nil means "leave as is".
type MoviePatch struct {
	Year     *int
	Rating   *float64
	Director *string
	CoverArt *string
	Link     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p MoviePatch) IsEmpty() bool {
	return p.Year == nil && p.Rating == nil && p.Director == nil && p.CoverArt == nil && p.Link == nil
}

// Apply writes the present fields onto m.
func (p MoviePatch) Apply(m *Movie) {
	if p.Year != nil {
		m.Year = *p.Year
	}
	if p.Rating != nil {
		m.Rating = *p.Rating
	}
	if p.Director != nil {
		m.Director = *p.Director
	}
	if p.CoverArt != nil {
		m.CoverArt = *p.CoverArt
	}
	if p.Link != nil {
		m.Link = *p.Link
	}
}

// Filter holds optional bounds; a movie passes when it satisfies every bound
// that is set.
type Filter struct {
	MinRating *float64
	StartYear *int
	EndYear   *int
}

// Match reports whether m satisfies the filter.
func (f Filter) Match(m Movie) bool {
	if f.MinRating != nil && m.Rating < *f.MinRating {
		return false
	}
	if f.StartYear != nil && m.Year < *f.StartYear {
		return false
	}
	if f.EndYear != nil && m.Year > *f.EndYear {
		return false
	}
	return true
}

// FilteredMovie is the projection returned by filtering.
type FilteredMovie struct {
	Title  string
	Year   int
	Rating float64
}

// AddResult tells whether AddMovie stored a row. AddFailed accompanies every
// error other than a skipped duplicate.
type AddResult int

const (
	AddFailed AddResult = iota
	AddInserted
	AddSkippedDuplicate
)

func (r AddResult) String() string {
	switch r {
	case AddInserted:
		return "inserted"
	case AddSkippedDuplicate:
		return "skipped_duplicate"
	default:
		return "failed"
	}
}
