// Package website renders the movie library as a static HTML gallery.
package website

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/movielib/internal/models"
)

const (
	TitlePlaceholder = "__TEMPLATE_TITLE__"
	GridPlaceholder  = "__TEMPLATE_MOVIE_GRID__"
	DefaultTitle     = "Movie Library"
	DefaultFileName  = "index.html"
)

//go:embed templates/index.html
var defaultPage string

var gridTmpl = template.Must(template.New("grid").Funcs(template.FuncMap{
	"hasCover": func(m models.Movie) bool {
		return m.CoverArt != "" && m.CoverArt != models.DefaultCoverArt
	},
}).Parse(`<ul class="movie-grid">
{{- range . }}
    <li class="movie-card">
        <div class="movie-card__content">
            {{- if hasCover . }}
            <img class="movie-poster" src="{{ .CoverArt }}" alt="{{ .Title }}">
            {{- else }}
            <div class="movie-poster--missing">No cover</div>
            {{- end }}
            {{- if .Link }}
            <p class="movie-title"><a href="{{ .Link }}">{{ .Title }}</a></p>
            {{- else }}
            <p class="movie-title">{{ .Title }}</p>
            {{- end }}
            <p class="movie-year">({{ .Year }})</p>
            <p class="movie-rating">{{ printf "%.1f" .Rating }}</p>
        </div>
    </li>
{{- end }}
</ul>`))

// Generator fills a page template with the movie grid.
type Generator struct {
	page string
}

// NewGenerator uses the page at templatePath, or the embedded default
// page when the path is empty.
func NewGenerator(templatePath string) (*Generator, error) {
	if templatePath == "" {
		return &Generator{page: defaultPage}, nil
	}
	b, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	page := string(b)
	if !strings.Contains(page, GridPlaceholder) {
		return nil, fmt.Errorf("template %s has no %s placeholder", templatePath, GridPlaceholder)
	}
	return &Generator{page: page}, nil
}

// Grid renders the card list on its own.
func Grid(movies []models.Movie) (string, error) {
	var buf bytes.Buffer
	if err := gridTmpl.Execute(&buf, movies); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render writes the complete page.
func (g *Generator) Render(w io.Writer, title string, movies []models.Movie) error {
	if title == "" {
		title = DefaultTitle
	}
	grid, err := Grid(movies)
	if err != nil {
		return fmt.Errorf("render grid: %w", err)
	}
	page := strings.ReplaceAll(g.page, TitlePlaceholder, html.EscapeString(title))
	page = strings.ReplaceAll(page, GridPlaceholder, grid)
	_, err = io.WriteString(w, page)
	return err
}

// WriteFile renders the page into path.
func (g *Generator) WriteFile(path, title string, movies []models.Movie) error {
	var buf bytes.Buffer
	if err := g.Render(&buf, title, movies); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
