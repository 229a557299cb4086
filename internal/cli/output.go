package cli

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/movielib/internal/models"
)

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// formatRating prints ratings the way they were entered: 8.5, 7, 9.25.
func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func (a *App) printMovieLine(m models.Movie) {
	a.printf("%s - Rating: %s - Year: %d\n", m.Title, formatRating(m.Rating), m.Year)
}
