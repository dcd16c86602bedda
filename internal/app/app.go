// Package app builds the object graph shared by the HTTP server and the CLI
// from a loaded configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/outfitplanner/backend/config"
	httpDelivery "github.com/outfitplanner/backend/internal/delivery/http"
	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/infrastructure/cache"
	"github.com/outfitplanner/backend/internal/infrastructure/embedding"
	"github.com/outfitplanner/backend/internal/infrastructure/memstore"
	"github.com/outfitplanner/backend/internal/infrastructure/postgres"
	"github.com/outfitplanner/backend/internal/infrastructure/scraper"
	"github.com/outfitplanner/backend/internal/logging"
	"github.com/outfitplanner/backend/internal/usecase"
)

// App holds the wired services and the resources that must be released on shutdown
type App struct {
	Services httpDelivery.Services
	Sources  []domain.Source

	closers []func() error
}

// New wires caches, stores, the embedder and the storefront sources selected by cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	resultCache, err := a.newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, a.abort(err)
	}

	wardrobeRepo, outfitRepo, err := a.newStores(ctx, cfg.Storage)
	if err != nil {
		return nil, a.abort(err)
	}

	sources, err := newSources(cfg.Scraper, cfg.RateLimit)
	if err != nil {
		return nil, a.abort(err)
	}
	a.Sources = sources

	index := usecase.NewEmbeddingIndex(newEmbedder(cfg.Embedding), wardrobeRepo)
	coordinator := usecase.NewCoordinator(sources, cfg.Scraper.SourceTimeout)

	a.Services = httpDelivery.Services{
		Search: usecase.NewSearchService(resultCache, coordinator, usecase.SearchServiceConfig{
			CacheTTL:     cfg.Cache.TTL,
			BatchTimeout: cfg.Scraper.BatchTimeout,
			MinPerSource: cfg.Scraper.MinPerSource,
		}),
		Recommend: usecase.NewRecommendService(wardrobeRepo, index),
		Wardrobe:  usecase.NewWardrobeService(wardrobeRepo, index),
		Outfits:   usecase.NewOutfitService(outfitRepo),
	}

	logging.Info().
		Str("cache", cfg.Cache.Type).
		Str("storage", cfg.Storage.Type).
		Str("embedding", cfg.Embedding.Provider).
		Int("sources", len(sources)).
		Bool("render", cfg.Scraper.Render).
		Msg("application wired")

	return a, nil
}

// Close releases every resource in reverse order of acquisition
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) abort(err error) error {
	if closeErr := a.Close(); closeErr != nil {
		logging.Warn().Err(closeErr).Msg("cleanup after failed startup")
	}
	return err
}

func (a *App) newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		a.closers = append(a.closers, redisCache.Close)
		return redisCache, nil
	default:
		memoryCache := cache.NewMemoryCache(cfg.SweepInterval)
		a.closers = append(a.closers, memoryCache.Close)
		return memoryCache, nil
	}
}

func (a *App) newStores(ctx context.Context, cfg config.StorageConfig) (domain.WardrobeRepository, domain.OutfitRepository, error) {
	if cfg.Type != "postgres" {
		return memstore.NewWardrobeStore(), memstore.NewOutfitStore(), nil
	}

	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, store.Close)

	if err := store.Migrate(); err != nil {
		return nil, nil, err
	}
	return store.Wardrobe(), store.Outfits(), nil
}

func newEmbedder(cfg config.EmbeddingConfig) domain.Embedder {
	if cfg.Provider == "ollama" {
		return embedding.NewOllamaEmbedder(embedding.OllamaConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Token:   cfg.Token,
		})
	}
	return embedding.NewHashingEmbedder(cfg.Dimension)
}

// newSources builds one breaker-guarded source per selected storefront, in registration order
func newSources(cfg config.ScraperConfig, limits config.RateLimitConfig) ([]domain.Source, error) {
	sites, err := scraper.SelectStorefronts(cfg.Sources)
	if err != nil {
		return nil, err
	}

	var fetcher scraper.PageFetcher = scraper.NewClient(scraper.ClientOptions{
		UserAgent:      cfg.UserAgent,
		RequestTimeout: cfg.RequestTimeout,
		MaxAttempts:    cfg.MaxAttempts,
		PerHostRate:    limits.PerSource,
	})
	if cfg.Render {
		fetcher = scraper.NewRenderer(cfg.UserAgent, cfg.SourceTimeout)
	}

	sources := make([]domain.Source, 0, len(sites))
	for _, site := range sites {
		sources = append(sources, scraper.NewBreakerSource(scraper.NewSource(site, fetcher), cfg.BreakerFailures, cfg.BreakerTimeout))
	}
	return sources, nil
}
