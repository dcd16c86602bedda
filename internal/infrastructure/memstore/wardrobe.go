// Package memstore keeps wardrobe items, cart items and saved outfits in process memory.
// It is the default store for development and single-instance deployments.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/outfitplanner/backend/internal/domain"
)

// WardrobeStore is a thread-safe in-memory domain.WardrobeRepository.
// List returns items in insertion order.
type WardrobeStore struct {
	mu    sync.RWMutex
	items map[string]domain.WardrobeItem
	order []string
}

// NewWardrobeStore creates an empty wardrobe store
func NewWardrobeStore() *WardrobeStore {
	return &WardrobeStore{items: make(map[string]domain.WardrobeItem)}
}

func (s *WardrobeStore) Create(ctx context.Context, item *domain.WardrobeItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return fmt.Errorf("wardrobe item %s already exists", item.ID)
	}
	s.items[item.ID] = cloneItem(*item)
	s.order = append(s.order, item.ID)
	return nil
}

func (s *WardrobeStore) Get(ctx context.Context, id string) (*domain.WardrobeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	out := cloneItem(item)
	return &out, nil
}

func (s *WardrobeStore) List(ctx context.Context) ([]domain.WardrobeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.WardrobeItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneItem(s.items[id]))
	}
	return out, nil
}

func (s *WardrobeStore) Update(ctx context.Context, item *domain.WardrobeItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	s.items[item.ID] = cloneItem(*item)
	return nil
}

func (s *WardrobeStore) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Embedding = append([]float32(nil), embedding...)
	s.items[id] = item
	return nil
}

func (s *WardrobeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *WardrobeStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]domain.WardrobeItem)
	s.order = nil
	return nil
}

func cloneItem(item domain.WardrobeItem) domain.WardrobeItem {
	if item.Tags != nil {
		item.Tags = append([]string(nil), item.Tags...)
	}
	if item.Embedding != nil {
		item.Embedding = append([]float32(nil), item.Embedding...)
	}
	return item
}
