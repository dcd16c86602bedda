package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/logging"
	"github.com/outfitplanner/backend/internal/metrics"
)

const (
	// DefaultMaxResults is used when a search request leaves max_results unset
	DefaultMaxResults = 36
	// DefaultMinPerSource is the per-storefront quota floor
	DefaultMinPerSource = 6
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL     time.Duration
	BatchTimeout time.Duration
	MinPerSource int
}

// SearchService answers product searches from the result cache or a live storefront fan-out
type SearchService struct {
	cache        domain.CacheRepository
	coordinator  *Coordinator
	cacheTTL     time.Duration
	batchTimeout time.Duration
	minPerSource int
	log          zerolog.Logger
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(cache domain.CacheRepository, coordinator *Coordinator, config SearchServiceConfig) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 45 * time.Second
	}
	minPerSource := config.MinPerSource
	if minPerSource <= 0 {
		minPerSource = DefaultMinPerSource
	}

	return &SearchService{
		cache:        cache,
		coordinator:  coordinator,
		cacheTTL:     cacheTTL,
		batchTimeout: batchTimeout,
		minPerSource: minPerSource,
		log:          logging.With("search"),
	}
}

// Search looks up products for a category/color query.
// Flow: check cache -> fan out to storefronts -> aggregate -> cache -> return
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	if request == nil || strings.TrimSpace(request.Category) == "" {
		return nil, domain.ErrInvalidRequest
	}
	maxResults := request.MaxResults
	if maxResults < 0 {
		return nil, fmt.Errorf("%w: max_results must not be negative", domain.ErrInvalidRequest)
	}
	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}

	fingerprint := Fingerprint(request.Category, request.Color)

	if cached, ok := s.lookup(ctx, fingerprint); ok {
		if len(cached) > maxResults {
			cached = cached[:maxResults]
		}
		return &domain.SearchResponse{Source: domain.ResultSourceCache, Products: cached}, nil
	}

	listings, err := s.fetchLive(ctx, request.QueryText(), maxResults)
	if err != nil {
		return nil, err
	}

	// Don't cache empty result sets
	if len(listings) > 0 {
		if err := s.cache.Set(ctx, fingerprint, listings, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache write failed")
		}
	}

	return &domain.SearchResponse{Source: domain.ResultSourceLive, Products: listings}, nil
}

// Invalidate drops the cached result set for a category/color query
func (s *SearchService) Invalidate(ctx context.Context, category, color string) error {
	return s.cache.Delete(ctx, Fingerprint(category, color))
}

// lookup treats every cache failure as a miss
func (s *SearchService) lookup(ctx context.Context, fingerprint string) ([]domain.Listing, bool) {
	cached, err := s.cache.Get(ctx, fingerprint)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, true
	case errors.Is(err, domain.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache read failed, treating as miss")
	}
	return nil, false
}

func (s *SearchService) fetchLive(ctx context.Context, query string, maxResults int) ([]domain.Listing, error) {
	bctx, cancel := context.WithTimeout(ctx, s.batchTimeout)
	defer cancel()

	perSource := PerSourceQuota(maxResults, s.coordinator.SourceCount(), s.minPerSource)
	raw, results, err := s.coordinator.Run(bctx, query, perSource)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	listings := Aggregate(raw, maxResults)

	s.log.Info().
		Str("query", query).
		Int("per_source", perSource).
		Int("sources", len(results)).
		Int("failed", failed).
		Int("raw", len(raw)).
		Int("returned", len(listings)).
		Msg("live search complete")

	return listings, nil
}
