package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/logging"
)

// WardrobeService manages wardrobe items and keeps their embeddings in sync with their text fields
type WardrobeService struct {
	repo  domain.WardrobeRepository
	index *EmbeddingIndex
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// NewWardrobeService creates a new wardrobe service
func NewWardrobeService(repo domain.WardrobeRepository, index *EmbeddingIndex) *WardrobeService {
	return &WardrobeService{
		repo:  repo,
		index: index,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
		log:   logging.With("wardrobe"),
	}
}

// List returns every wardrobe item without embeddings
func (s *WardrobeService) List(ctx context.Context) ([]*domain.WardrobeItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wardrobe: %w", err)
	}
	out := make([]*domain.WardrobeItem, 0, len(items))
	for _, item := range items {
		out = append(out, item.Public())
	}
	return out, nil
}

// Get returns one wardrobe item without its embedding
func (s *WardrobeService) Get(ctx context.Context, id string) (*domain.WardrobeItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return item.Public(), nil
}

// Add stores a new item. image is the public path of an uploaded picture, or "".
func (s *WardrobeService) Add(ctx context.Context, input domain.WardrobeItemInput, image string) (*domain.WardrobeItem, error) {
	item := &domain.WardrobeItem{
		ID:        s.newID(),
		Image:     image,
		CreatedAt: s.now().UTC(),
	}
	if err := applyInput(item, input); err != nil {
		return nil, err
	}

	s.embed(ctx, item)

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create wardrobe item: %w", err)
	}
	return item.Public(), nil
}

// Update replaces the editable fields of an item and recomputes its embedding.
// A non-empty image replaces the stored one.
func (s *WardrobeService) Update(ctx context.Context, id string, input domain.WardrobeItemInput, image string) (*domain.WardrobeItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(item, input); err != nil {
		return nil, err
	}
	if image != "" {
		item.Image = image
	}

	item.Embedding = nil
	s.embed(ctx, item)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item.Public(), nil
}

// Delete removes an item and returns what was removed
func (s *WardrobeService) Delete(ctx context.Context, id string) (*domain.WardrobeItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return item.Public(), nil
}

// Clear removes every wardrobe item
func (s *WardrobeService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// RefreshEmbeddings recomputes embeddings for up to limit items
func (s *WardrobeService) RefreshEmbeddings(ctx context.Context, limit int) (int, error) {
	return s.index.RefreshAll(ctx, limit)
}

// embed computes the embedding in place; on failure the item is stored without one
// and the recommender fills it in on first use.
func (s *WardrobeService) embed(ctx context.Context, item *domain.WardrobeItem) {
	if err := s.index.Compute(ctx, item); err != nil {
		s.log.Warn().Err(err).Str("item", item.ID).Msg("embedding deferred")
	}
}

func applyInput(item *domain.WardrobeItem, input domain.WardrobeItemInput) error {
	name := strings.TrimSpace(input.Name)
	category := strings.ToLower(strings.TrimSpace(input.Category))
	if name == "" || category == "" {
		return fmt.Errorf("%w: name and category are required", domain.ErrInvalidRequest)
	}

	item.Name = name
	item.Category = category
	item.Color = strings.TrimSpace(input.Color)
	item.Season = strings.ToLower(strings.TrimSpace(input.Season))
	item.Tags = cleanTags(input.Tags)
	return nil
}

// ParseTags splits a comma-separated form value into tags
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return cleanTags(strings.Split(raw, ","))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
