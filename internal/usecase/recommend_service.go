package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/metrics"
)

const (
	// SeasonBoost is added when the requested season matches the item's season
	SeasonBoost = 0.12
	// ColorBoost is added when the preferred color matches the item's color group
	ColorBoost = 0.12
	// DefaultTopK is the number of ranked alternatives returned per category
	DefaultTopK = 5
)

// ScoreOptions are the optional preferences applied on top of similarity
type ScoreOptions struct {
	Season      string
	PreferColor string
}

// RecommendService picks one wardrobe item per outfit category for an event description
type RecommendService struct {
	repo  domain.WardrobeRepository
	index *EmbeddingIndex
}

// NewRecommendService creates a new recommendation service
func NewRecommendService(repo domain.WardrobeRepository, index *EmbeddingIndex) *RecommendService {
	return &RecommendService{repo: repo, index: index}
}

// Recommend embeds the event text, scores every wardrobe item and picks the best one per category.
// Empty categories map to nil.
func (s *RecommendService) Recommend(ctx context.Context, request *domain.RecommendRequest) (*domain.RecommendResponse, error) {
	if request == nil || strings.TrimSpace(request.Event) == "" {
		return nil, domain.ErrInvalidRequest
	}
	start := time.Now()
	defer func() { metrics.RecommendDuration.Observe(time.Since(start).Seconds()) }()

	topK := request.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	eventVec, err := s.index.Embed(ctx, request.Event)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wardrobe: %w", err)
	}
	for i := range items {
		if err := s.index.Ensure(ctx, &items[i], len(eventVec)); err != nil {
			return nil, err
		}
	}

	ranked := Rank(eventVec, items, ScoreOptions{Season: request.Season, PreferColor: request.PreferColor})

	response := &domain.RecommendResponse{
		Event:        request.Event,
		Outfit:       make(map[domain.Category]*domain.WardrobeItem, len(domain.Categories)),
		Alternatives: make(map[domain.Category][]domain.ScoredItem, len(domain.Categories)),
	}
	for _, category := range domain.Categories {
		bucket := ranked[category]
		if len(bucket) == 0 {
			response.Outfit[category] = nil
			continue
		}
		response.Outfit[category] = bucket[0].Item
		response.Alternatives[category] = bucket[:min(topK, len(bucket))]
	}
	return response, nil
}

// Rank buckets items by category and orders each bucket by descending score.
// Equal scores keep wardrobe order, so the first element of a bucket is the stable argmax.
// Returned items are public copies without embeddings.
func Rank(eventVec []float32, items []domain.WardrobeItem, opts ScoreOptions) map[domain.Category][]domain.ScoredItem {
	buckets := make(map[domain.Category][]domain.ScoredItem, len(domain.Categories))
	for _, item := range items {
		category := Categorize(item.Category)
		buckets[category] = append(buckets[category], domain.ScoredItem{
			Item:  item.Public(),
			Score: Score(eventVec, item, opts),
		})
	}

	for _, bucket := range buckets {
		slices.SortStableFunc(bucket, func(a, b domain.ScoredItem) int {
			switch {
			case a.Score > b.Score:
				return -1
			case a.Score < b.Score:
				return 1
			default:
				return 0
			}
		})
	}
	return buckets
}

// Score is the cosine similarity between the event and the item plus the season and color boosts
func Score(eventVec []float32, item domain.WardrobeItem, opts ScoreOptions) float64 {
	score := Cosine(eventVec, item.Embedding)

	season := strings.TrimSpace(opts.Season)
	if season != "" && item.Season != "" && strings.EqualFold(season, strings.TrimSpace(item.Season)) {
		score += SeasonBoost
	}

	if opts.PreferColor != "" {
		preferred := NormalizeColor(opts.PreferColor)
		own := NormalizeColor(item.Color)
		if preferred != "" && own != "" && preferred == own {
			score += ColorBoost
		}
	}
	return score
}
