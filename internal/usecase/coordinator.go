package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/logging"
	"github.com/outfitplanner/backend/internal/metrics"
)

// Outcome labels recorded per storefront call
const (
	outcomeOK          = "ok"
	outcomeError       = "error"
	outcomeTimeout     = "timeout"
	outcomePanic       = "panic"
	outcomeCircuitOpen = "circuit_open"
)

// DefaultSourceTimeout bounds a single storefront call when none is configured
const DefaultSourceTimeout = 20 * time.Second

// Coordinator fans a query out to every registered storefront and gathers the results.
// A failing, slow or panicking storefront only loses its own listings.
type Coordinator struct {
	sources       []domain.Source
	sourceTimeout time.Duration
	log           zerolog.Logger
}

// NewCoordinator creates a coordinator over sources in registration order
func NewCoordinator(sources []domain.Source, sourceTimeout time.Duration) *Coordinator {
	if sourceTimeout <= 0 {
		sourceTimeout = DefaultSourceTimeout
	}
	return &Coordinator{
		sources:       sources,
		sourceTimeout: sourceTimeout,
		log:           logging.With("coordinator"),
	}
}

// SourceCount returns the number of registered storefronts
func (c *Coordinator) SourceCount() int {
	return len(c.sources)
}

// PerSourceQuota splits maxResults across sources, never going below floor
func PerSourceQuota(maxResults, sources, floor int) int {
	if sources <= 0 {
		return floor
	}
	quota := (maxResults + sources - 1) / sources
	return max(floor, quota)
}

// Run queries every storefront concurrently with the same (query, limit) and waits for all of them.
// The returned listings are the successful storefronts' outputs concatenated in registration order;
// results carries one tagged record per storefront. An error is returned only when ctx ends first.
func (c *Coordinator) Run(ctx context.Context, query string, limit int) ([]domain.Listing, []domain.SourceResult, error) {
	results := make([]domain.SourceResult, len(c.sources))

	var g errgroup.Group
	for i, source := range c.sources {
		g.Go(func() error {
			results[i] = c.call(ctx, source, query, limit)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, results, fmt.Errorf("%w: %v", domain.ErrSearchTimeout, err)
	}

	var listings []domain.Listing
	for _, r := range results {
		if r.OK() {
			listings = append(listings, r.Listings...)
		}
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return listings, results, nil
}

type callOutcome struct {
	listings []domain.Listing
	err      error
	panicked bool
}

// call runs one storefront under its own deadline. The storefront runs in a separate
// goroutine so one that ignores ctx still cannot hold the barrier past the deadline.
func (c *Coordinator) call(ctx context.Context, source domain.Source, query string, limit int) domain.SourceResult {
	name := source.Name()
	start := time.Now()

	sctx, cancel := context.WithTimeout(ctx, c.sourceTimeout)
	defer cancel()

	done := make(chan callOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callOutcome{err: fmt.Errorf("%w: panic: %v", domain.ErrSourceFailure, r), panicked: true}
			}
		}()
		listings, err := source.Search(sctx, query, limit)
		done <- callOutcome{listings: listings, err: err}
	}()

	var out callOutcome
	select {
	case out = <-done:
	case <-sctx.Done():
		out = callOutcome{err: sctx.Err()}
	}

	elapsed := time.Since(start)
	result := domain.SourceResult{Source: name, Elapsed: elapsed.Milliseconds()}
	metrics.SourceDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if out.err != nil {
		outcome := classify(out)
		metrics.SourceRequests.WithLabelValues(name, outcome).Inc()
		c.log.Warn().Str("source", name).Str("outcome", outcome).Dur("elapsed", elapsed).Err(out.err).Msg("storefront failed")
		result.Err = out.err
		return result
	}

	listings := make([]domain.Listing, 0, len(out.listings))
	for _, l := range out.listings {
		listings = append(listings, l.Sanitized())
	}
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	metrics.SourceRequests.WithLabelValues(name, outcomeOK).Inc()
	metrics.SourceListings.WithLabelValues(name).Add(float64(len(listings)))
	c.log.Debug().Str("source", name).Int("listings", len(listings)).Dur("elapsed", elapsed).Msg("storefront done")

	result.Listings = listings
	return result
}

func classify(out callOutcome) string {
	switch {
	case out.panicked:
		return outcomePanic
	case errors.Is(out.err, domain.ErrCircuitOpen):
		return outcomeCircuitOpen
	case errors.Is(out.err, context.DeadlineExceeded):
		return outcomeTimeout
	default:
		return outcomeError
	}
}
