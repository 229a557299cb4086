// Package chart renders rating histograms.
package chart

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	NumBins = 10
	Title   = "Histogram of Movie Ratings"
	XLabel  = "Ratings"
	YLabel  = "Number of Movies"
)

// Bins counts ratings into NumBins equal buckets over [0, 10].
// A rating of exactly 10 falls into the last bucket; values outside the range are ignored.
func Bins(ratings []float64) [NumBins]int {
	var out [NumBins]int
	for _, r := range ratings {
		if math.IsNaN(r) || r < 0 || r > 10 {
			continue
		}
		i := int(r)
		if i >= NumBins {
			i = NumBins - 1
		}
		out[i]++
	}
	return out
}

func binLabels() []string {
	labels := make([]string, NumBins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d-%d", i, i+1)
	}
	return labels
}

// WithPNG appends a .png extension when name has none.
func WithPNG(name string) string {
	if filepath.Ext(name) == "" {
		return name + ".png"
	}
	return name
}

// SaveHistogram draws the rating histogram and writes it to path.
// The image format follows the file extension.
func SaveHistogram(ratings []float64, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty histogram path")
	}

	counts := Bins(ratings)
	values := make(plotter.Values, NumBins)
	for i, c := range counts {
		values[i] = float64(c)
	}

	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(1)
	p.Add(bars)
	p.NominalX(binLabels()...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save histogram %s: %w", path, err)
	}
	return nil
}
