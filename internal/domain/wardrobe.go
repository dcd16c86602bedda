package domain

import (
	"strings"
	"time"
)

// Category is a functional clothing slot in an outfit
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryShoes     Category = "shoes"
	CategoryOuterwear Category = "outerwear"
	CategoryAccessory Category = "accessory"
)

// Categories lists every outfit slot in response order
var Categories = []Category{
	CategoryTop,
	CategoryBottom,
	CategoryShoes,
	CategoryOuterwear,
	CategoryAccessory,
}

// WardrobeItem represents a garment the user owns
type WardrobeItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	Season    string    `json:"season"`
	Tags      []string  `json:"tags"`
	Image     string    `json:"image,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Description is the text projection fed to the encoder.
// Empty fields are skipped so the projection stays comparable with free-text event descriptions.
func (w *WardrobeItem) Description() string {
	pieces := []string{w.Name, w.Category, w.Color, w.Season}
	pieces = append(pieces, w.Tags...)

	kept := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Public returns a copy suitable for API responses (embedding stripped)
func (w WardrobeItem) Public() *WardrobeItem {
	w.Embedding = nil
	if w.Tags == nil {
		w.Tags = []string{}
	}
	return &w
}

// WardrobeItemInput carries user-editable wardrobe fields
type WardrobeItemInput struct {
	Name     string   `json:"name" form:"name" binding:"required"`
	Category string   `json:"category" form:"category" binding:"required"`
	Color    string   `json:"color" form:"color"`
	Season   string   `json:"season" form:"season"`
	Tags     []string `json:"tags" form:"-"`
}

// RecommendRequest represents an outfit recommendation request
type RecommendRequest struct {
	Event       string `form:"event" json:"event" binding:"required"`
	TopK        int    `form:"top_k" json:"top_k"`
	PreferColor string `form:"prefer_color" json:"prefer_color,omitempty"`
	Season      string `form:"season" json:"season,omitempty"`
}

// ScoredItem is a wardrobe item with its recommendation score
type ScoredItem struct {
	Item  *WardrobeItem `json:"item"`
	Score float64       `json:"score"`
}

// RecommendResponse maps every category to the best item, or null when the bucket is empty
type RecommendResponse struct {
	Event        string                     `json:"event"`
	Outfit       map[Category]*WardrobeItem `json:"outfit"`
	Alternatives map[Category][]ScoredItem  `json:"alternatives,omitempty"`
}

// CartItem is a scraped listing a user set aside for outfit building
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Listing   Listing   `json:"listing"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// OutfitCombination pairs one top, one bottom and optionally shoes
type OutfitCombination struct {
	Top    *CartItem `json:"top"`
	Bottom *CartItem `json:"bottom"`
	Shoes  *CartItem `json:"shoes"`
	Score  float64   `json:"score"`
}

// SavedOutfit is a combination persisted for a user
type SavedOutfit struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Name        string            `json:"name"`
	Combination OutfitCombination `json:"combination"`
	CreatedAt   time.Time         `json:"createdAt"`
}
