package domain

import (
	"context"
	"time"
)

// Source is a single storefront search capability.
// Implementations must honour ctx cancellation.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Listing, error)
}

// CacheRepository stores aggregated search results keyed by query fingerprint
type CacheRepository interface {
	Get(ctx context.Context, fingerprint string) ([]Listing, error)
	Set(ctx context.Context, fingerprint string, listings []Listing, ttl time.Duration) error
	Delete(ctx context.Context, fingerprint string) error
}

// Embedder turns text into a fixed-length vector using a pre-trained encoder
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// WardrobeRepository persists wardrobe items
type WardrobeRepository interface {
	Create(ctx context.Context, item *WardrobeItem) error
	Get(ctx context.Context, id string) (*WardrobeItem, error)
	List(ctx context.Context) ([]WardrobeItem, error)
	Update(ctx context.Context, item *WardrobeItem) error
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// OutfitRepository persists per-user cart items and saved outfits
type OutfitRepository interface {
	AddCartItem(ctx context.Context, item *CartItem) error
	ListCartItems(ctx context.Context, userID string) ([]CartItem, error)
	DeleteCartItem(ctx context.Context, userID, id string) error
	SaveOutfit(ctx context.Context, outfit *SavedOutfit) error
	ListOutfits(ctx context.Context, userID string) ([]SavedOutfit, error)
}
