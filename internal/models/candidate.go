package models

// SearchHit is one row of a metadata search.
type SearchHit struct {
	Title      string
	Year       string
	ExternalID string
}

// Candidate is the metadata fetched for a single title. Rating is nil when
// the provider had none.
type Candidate struct {
	Title      string
	Year       int
	Director   string
	PosterURL  string
	Rating     *float64
	ExternalID string
	Link       string
}

// ToNewMovie converts the candidate into an insertable record. A missing
// rating is stored as 0.
func (c *Candidate) ToNewMovie() NewMovie {
	n := NewMovie{
		Title:    c.Title,
		Year:     c.Year,
		Director: c.Director,
		CoverArt: c.PosterURL,
		Link:     c.Link,
	}
	if c.Rating != nil {
		n.Rating = *c.Rating
	}
	if n.CoverArt == "N/A" {
		n.CoverArt = ""
	}
	if n.Director == "N/A" {
		n.Director = ""
	}
	n.ApplyDefaults()
	return n
}
