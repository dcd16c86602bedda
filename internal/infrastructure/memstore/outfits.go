package memstore

import (
	"context"
	"sync"

	"github.com/outfitplanner/backend/internal/domain"
)

// OutfitStore is a thread-safe in-memory domain.OutfitRepository, partitioned by user
type OutfitStore struct {
	mu      sync.RWMutex
	carts   map[string][]domain.CartItem
	outfits map[string][]domain.SavedOutfit
}

// NewOutfitStore creates an empty outfit store
func NewOutfitStore() *OutfitStore {
	return &OutfitStore{
		carts:   make(map[string][]domain.CartItem),
		outfits: make(map[string][]domain.SavedOutfit),
	}
}

func (s *OutfitStore) AddCartItem(ctx context.Context, item *domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[item.UserID] = append(s.carts[item.UserID], *item)
	return nil
}

func (s *OutfitStore) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.CartItem{}, s.carts[userID]...), nil
}

func (s *OutfitStore) DeleteCartItem(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i, item := range items {
		if item.ID == id {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

// SaveOutfit stores the combination by value so later cart edits do not alter it
func (s *OutfitStore) SaveOutfit(ctx context.Context, outfit *domain.SavedOutfit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *outfit
	stored.Combination = cloneCombination(outfit.Combination)
	s.outfits[outfit.UserID] = append(s.outfits[outfit.UserID], stored)
	return nil
}

func (s *OutfitStore) ListOutfits(ctx context.Context, userID string) ([]domain.SavedOutfit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.SavedOutfit{}, s.outfits[userID]...), nil
}

func cloneCombination(c domain.OutfitCombination) domain.OutfitCombination {
	clone := func(item *domain.CartItem) *domain.CartItem {
		if item == nil {
			return nil
		}
		copied := *item
		return &copied
	}
	return domain.OutfitCombination{
		Top:    clone(c.Top),
		Bottom: clone(c.Bottom),
		Shoes:  clone(c.Shoes),
		Score:  c.Score,
	}
}
