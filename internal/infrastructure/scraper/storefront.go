package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/outfitplanner/backend/internal/domain"
)

// Storefront describes where a shop's search page lives and how its product cards are laid out.
// Selector lists are tried in order; the first one that yields text wins.
type Storefront struct {
	Name       string // stable identifier, used in logs, metrics and config
	Brand      string
	BaseURL    string
	SearchPath string // printf pattern receiving the escaped query

	Cards      []string // card selector groups, later groups are fallbacks
	Title      []string
	Price      []string
	ImageAttrs []string // img attributes, lazy-load attributes first
}

// SearchURL builds the storefront search URL for a free-text query
func (s Storefront) SearchURL(query string) string {
	return strings.TrimRight(s.BaseURL, "/") + fmt.Sprintf(s.SearchPath, url.QueryEscape(query))
}

// Parse extracts up to limit listings from a search results page. limit <= 0 means no bound.
func (s Storefront) Parse(html, pageURL string, limit int) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrSourceFailure, s.Name, err)
	}

	var cards *goquery.Selection
	for _, group := range s.Cards {
		cards = doc.Find(group)
		if cards.Length() > 0 {
			break
		}
	}
	if cards == nil || cards.Length() == 0 {
		return []domain.Listing{}, nil
	}

	listings := make([]domain.Listing, 0, cards.Length())
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if limit > 0 && len(listings) >= limit {
			return false
		}
		listings = append(listings, s.listingFrom(card, pageURL))
		return true
	})

	return listings, nil
}

func (s Storefront) listingFrom(card *goquery.Selection, pageURL string) domain.Listing {
	var image string
	if img := card.Find("img").First(); img.Length() > 0 {
		for _, attr := range s.ImageAttrs {
			if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
				image = v
				break
			}
		}
	}

	href, _ := card.Find("a").First().Attr("href")

	return domain.Listing{
		Title:  firstText(card, s.Title),
		Price:  NormalizePrice(firstText(card, s.Price)),
		Image:  AbsoluteURL(s.BaseURL, image),
		Link:   AbsoluteURL(s.BaseURL, href),
		Brand:  s.Brand,
		Source: pageURL,
	}.Sanitized()
}

func firstText(card *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(card.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// Source adapts a Storefront to domain.Source using a page fetcher
type Source struct {
	site    Storefront
	fetcher PageFetcher
}

// NewSource creates a storefront adapter
func NewSource(site Storefront, fetcher PageFetcher) *Source {
	return &Source{site: site, fetcher: fetcher}
}

// Name returns the storefront identifier
func (s *Source) Name() string {
	return s.site.Name
}

// Search fetches the storefront search page for query and parses up to limit listings
func (s *Source) Search(ctx context.Context, query string, limit int) ([]domain.Listing, error) {
	pageURL := s.site.SearchURL(query)

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	return s.site.Parse(html, pageURL, limit)
}
