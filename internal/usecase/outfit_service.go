package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/outfitplanner/backend/internal/domain"
)

// OutfitService manages a user's cart of scraped listings and builds outfits from it
type OutfitService struct {
	repo  domain.OutfitRepository
	now   func() time.Time
	newID func() string
}

// NewOutfitService creates a new outfit service
func NewOutfitService(repo domain.OutfitRepository) *OutfitService {
	return &OutfitService{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// AddToCart stores a listing for userID. When category is empty it is derived from the title.
func (s *OutfitService) AddToCart(ctx context.Context, userID string, listing domain.Listing, category string) (*domain.CartItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	listing = listing.Sanitized()
	if listing.Title == "" && listing.Link == "" {
		return nil, fmt.Errorf("%w: listing needs a title or link", domain.ErrInvalidRequest)
	}

	source := category
	if strings.TrimSpace(source) == "" {
		source = listing.Title
	}

	item := &domain.CartItem{
		ID:        s.newID(),
		UserID:    userID,
		Listing:   listing,
		Category:  Categorize(source),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddCartItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return item, nil
}

// Cart lists a user's cart items in insertion order
func (s *OutfitService) Cart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.repo.ListCartItems(ctx, userID)
}

// RemoveFromCart deletes one cart item
func (s *OutfitService) RemoveFromCart(ctx context.Context, userID, id string) error {
	return s.repo.DeleteCartItem(ctx, userID, id)
}

// Build pairs every top with every bottom, and each pair with every pair of shoes
// (or none when the cart holds no shoes). Combinations are ordered by color
// compatibility, best first; equal scores keep cart order.
func (s *OutfitService) Build(ctx context.Context, userID string) ([]domain.OutfitCombination, error) {
	items, err := s.repo.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	return BuildCombinations(items), nil
}

// BuildCombinations generates the Cartesian top x bottom x (shoes | none) product
func BuildCombinations(items []domain.CartItem) []domain.OutfitCombination {
	var tops, bottoms, shoes []*domain.CartItem
	for i := range items {
		item := &items[i]
		if item.Category == "" {
			item.Category = Categorize(item.Listing.Title)
		}
		switch item.Category {
		case domain.CategoryTop:
			tops = append(tops, item)
		case domain.CategoryBottom:
			bottoms = append(bottoms, item)
		case domain.CategoryShoes:
			shoes = append(shoes, item)
		}
	}

	shoeOptions := shoes
	if len(shoeOptions) == 0 {
		shoeOptions = []*domain.CartItem{nil}
	}

	combos := make([]domain.OutfitCombination, 0, len(tops)*len(bottoms)*len(shoeOptions))
	for _, top := range tops {
		for _, bottom := range bottoms {
			for _, shoe := range shoeOptions {
				combos = append(combos, domain.OutfitCombination{
					Top:    top,
					Bottom: bottom,
					Shoes:  shoe,
					Score:  combinationScore(top, bottom, shoe),
				})
			}
		}
	}

	slices.SortStableFunc(combos, func(a, b domain.OutfitCombination) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return combos
}

// combinationScore sums the pairwise color compatibility of the pieces present
func combinationScore(top, bottom, shoes *domain.CartItem) float64 {
	topColor := DetectColor(top.Listing.Title)
	bottomColor := DetectColor(bottom.Listing.Title)

	score := ColorCompatibility(topColor, bottomColor)
	if shoes != nil {
		shoeColor := DetectColor(shoes.Listing.Title)
		score += ColorCompatibility(topColor, shoeColor) + ColorCompatibility(bottomColor, shoeColor)
	}
	return score
}

// SaveOutfit persists a combination under a user-chosen name
func (s *OutfitService) SaveOutfit(ctx context.Context, userID, name string, combination domain.OutfitCombination) (*domain.SavedOutfit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	if combination.Top == nil || combination.Bottom == nil {
		return nil, fmt.Errorf("%w: an outfit needs a top and a bottom", domain.ErrInvalidRequest)
	}

	outfit := &domain.SavedOutfit{
		ID:          s.newID(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Combination: combination,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.SaveOutfit(ctx, outfit); err != nil {
		return nil, fmt.Errorf("save outfit: %w", err)
	}
	return outfit, nil
}

// Outfits lists a user's saved outfits
func (s *OutfitService) Outfits(ctx context.Context, userID string) ([]domain.SavedOutfit, error) {
	return s.repo.ListOutfits(ctx, userID)
}
