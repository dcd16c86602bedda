package domain

import "strings"

// Listing represents one product scraped from a storefront search page.
// Every field is always present in serialized form; missing values are "".
type Listing struct {
	Title  string `json:"title"`
	Price  string `json:"price"`
	Image  string `json:"image"`
	Link   string `json:"link"`
	Brand  string `json:"brand"`
	Source string `json:"source"`
}

// Sanitized returns a copy with surrounding whitespace removed from every field
func (l Listing) Sanitized() Listing {
	return Listing{
		Title:  strings.TrimSpace(l.Title),
		Price:  strings.TrimSpace(l.Price),
		Image:  strings.TrimSpace(l.Image),
		Link:   strings.TrimSpace(l.Link),
		Brand:  strings.TrimSpace(l.Brand),
		Source: strings.TrimSpace(l.Source),
	}
}

// DedupKey identifies a listing across storefronts
func (l Listing) DedupKey() string {
	return l.Link + "|" + l.Title
}

// Result sources reported to the caller
const (
	ResultSourceCache = "cache"
	ResultSourceLive  = "live"
)

// SearchRequest represents a product search request
type SearchRequest struct {
	Category   string `json:"category" binding:"required"`
	Color      string `json:"color,omitempty"`
	Location   string `json:"location,omitempty"` // accepted for compatibility, not part of the cache key
	MaxResults int    `json:"max_results,omitempty"`
}

// QueryText builds the free-text query sent to every storefront ("<color> <category>")
func (r *SearchRequest) QueryText() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{r.Color, r.Category} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// SearchResponse is returned by the product search endpoint
type SearchResponse struct {
	Source   string    `json:"source"` // "cache" or "live"
	Products []Listing `json:"products"`
}

// SourceResult is the tagged outcome of one storefront call during a fan-out
type SourceResult struct {
	Source   string
	Listings []Listing
	Err      error
	Elapsed  int64 // milliseconds
}

// OK reports whether the storefront call succeeded
func (r SourceResult) OK() bool {
	return r.Err == nil
}
