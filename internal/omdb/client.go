// Package omdb is a small client for the OMDb movie metadata API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/models"
)

const (
	DefaultBaseURL = "https://www.omdbapi.com/"
	imdbTitleURL   = "https://www.imdb.com/title/%s/"
)

var ErrMissingAPIKey = errors.New("omdb: api key is not configured")

// Client queries OMDb over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: &http.Client{Timeout: timeout}}
}

type searchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDbID string `json:"imdbID"`
	} `json:"Search"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

type rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

type detailsResponse struct {
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Director   string   `json:"Director"`
	Poster     string   `json:"Poster"`
	Ratings    []rating `json:"Ratings"`
	IMDbRating string   `json:"imdbRating"`
	IMDbID     string   `json:"imdbID"`
	Response   string   `json:"Response"`
	Error      string   `json:"Error"`
}

// Search returns the titles matching query. No match is common.ErrNotFound.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	var resp searchResponse
	if err := c.get(ctx, url.Values{"s": {query}}, &resp); err != nil {
		return nil, err
	}
	if resp.Response != "True" || len(resp.Search) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, orDefault(resp.Error, "no movies found"))
	}

	hits := make([]models.SearchHit, 0, len(resp.Search))
	for _, s := range resp.Search {
		hits = append(hits, models.SearchHit{Title: s.Title, Year: s.Year, ExternalID: s.IMDbID})
	}
	return hits, nil
}

// Details fetches the metadata for an exact title.
func (c *Client) Details(ctx context.Context, title string) (*models.Candidate, error) {
	return c.details(ctx, url.Values{"t": {title}})
}

// DetailsByID fetches the metadata for an IMDb id such as "tt0133093".
func (c *Client) DetailsByID(ctx context.Context, id string) (*models.Candidate, error) {
	return c.details(ctx, url.Values{"i": {id}})
}

func (c *Client) details(ctx context.Context, q url.Values) (*models.Candidate, error) {
	var resp detailsResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	if resp.Response != "True" {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, orDefault(resp.Error, "movie not found"))
	}

	cand := &models.Candidate{
		Title:      resp.Title,
		Year:       ParseYear(resp.Year),
		Director:   resp.Director,
		PosterURL:  resp.Poster,
		ExternalID: resp.IMDbID,
	}
	if len(resp.Ratings) > 0 {
		cand.Rating = ParseRating(resp.Ratings[0].Value)
	}
	if cand.Rating == nil {
		cand.Rating = ParseRating(resp.IMDbRating)
	}
	if resp.IMDbID != "" {
		cand.Link = fmt.Sprintf(imdbTitleURL, resp.IMDbID)
	}
	return cand, nil
}

func (c *Client) get(ctx context.Context, q url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("omdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("omdb: %s; body: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("omdb decode: %w", err)
	}
	return nil
}

// ParseRating normalises "8.7/10", "87/100" and "87%" to the 0–10 scale.
// Anything else yields nil.
func ParseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return nil
	}

	scale := 10.0
	switch {
	case strings.HasSuffix(s, "%"):
		s = strings.TrimSuffix(s, "%")
		scale = 100
	case strings.Contains(s, "/"):
		parts := strings.SplitN(s, "/", 2)
		d, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || d <= 0 {
			return nil
		}
		s, scale = parts[0], d
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	r := v
	if scale != 10 {
		r = v * 10 / scale
	}
	if r < models.MinRating || r > models.MaxRating {
		return nil
	}
	return &r
}

// ParseYear returns the leading four-digit year of values such as "1999" or
// "2001–2003"; 0 when there is none.
func ParseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return y
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
