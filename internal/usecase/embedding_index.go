package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/logging"
	"github.com/outfitplanner/backend/internal/metrics"
)

// DefaultRefreshLimit caps how many wardrobe items a bulk refresh touches
const DefaultRefreshLimit = 1000

// EmbeddingIndex owns the embedding field of wardrobe items
type EmbeddingIndex struct {
	embedder domain.Embedder
	repo     domain.WardrobeRepository
	log      zerolog.Logger
}

// NewEmbeddingIndex creates an index that writes embeddings through repo
func NewEmbeddingIndex(embedder domain.Embedder, repo domain.WardrobeRepository) *EmbeddingIndex {
	return &EmbeddingIndex{
		embedder: embedder,
		repo:     repo,
		log:      logging.With("embedding"),
	}
}

// Embed encodes arbitrary text such as an event description
func (x *EmbeddingIndex) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
	}
	metrics.EmbeddingsComputed.Inc()
	return vec, nil
}

// Compute sets item.Embedding from the item's description without persisting it
func (x *EmbeddingIndex) Compute(ctx context.Context, item *domain.WardrobeItem) error {
	vec, err := x.Embed(ctx, item.Description())
	if err != nil {
		return err
	}
	item.Embedding = vec
	return nil
}

// Refresh recomputes and persists the embedding of a stored item
func (x *EmbeddingIndex) Refresh(ctx context.Context, item *domain.WardrobeItem) error {
	if err := x.Compute(ctx, item); err != nil {
		return err
	}
	return x.repo.UpdateEmbedding(ctx, item.ID, item.Embedding)
}

// Ensure makes sure item carries an embedding of length dim, computing it when missing or stale.
// A failed write-back is logged; the freshly computed vector is still used.
func (x *EmbeddingIndex) Ensure(ctx context.Context, item *domain.WardrobeItem, dim int) error {
	if len(item.Embedding) > 0 && (dim <= 0 || len(item.Embedding) == dim) {
		return nil
	}
	if err := x.Compute(ctx, item); err != nil {
		return err
	}
	if err := x.repo.UpdateEmbedding(ctx, item.ID, item.Embedding); err != nil {
		x.log.Warn().Err(err).Str("item", item.ID).Msg("failed to store embedding")
	}
	return nil
}

// RefreshAll recomputes embeddings for up to limit items and returns how many were updated
func (x *EmbeddingIndex) RefreshAll(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultRefreshLimit
	}

	items, err := x.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list wardrobe: %w", err)
	}
	if len(items) > limit {
		items = items[:limit]
	}

	updated := 0
	for i := range items {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if err := x.Refresh(ctx, &items[i]); err != nil {
			return updated, fmt.Errorf("refresh %s: %w", items[i].ID, err)
		}
		updated++
	}

	x.log.Info().Int("updated", updated).Str("model", x.embedder.ModelName()).Msg("embeddings refreshed")
	return updated, nil
}
