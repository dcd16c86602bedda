package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/outfitplanner/backend/internal/domain"
)

// Renderer fetches pages through a headless Chrome so storefronts that build
// their product grid client-side still yield cards.
type Renderer struct {
	userAgent string
	timeout   time.Duration
}

// NewRenderer creates a headless browser page fetcher
func NewRenderer(userAgent string, timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Renderer{userAgent: userAgent, timeout: timeout}
}

// Fetch navigates to pageURL and returns the rendered document
func (r *Renderer) Fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
	)
	if r.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.userAgent))
	}

	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("%w: render %s: %v", domain.ErrSourceFailure, pageURL, err)
	}
	return html, nil
}
