package usecase

import (
	"strings"

	"github.com/outfitplanner/backend/internal/domain"
)

// categoryKeywords is the single keyword table used by both the recommender and the outfit builder.
// Entries are checked in order; the first category with a matching keyword wins.
var categoryKeywords = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryTop, []string{"shirt", "blouse", "tee", "top"}},
	{domain.CategoryBottom, []string{"pant", "jean", "trouser", "short"}},
	{domain.CategoryShoes, []string{"shoe", "sneaker", "boot", "loafer"}},
	{domain.CategoryOuterwear, []string{"coat", "jacket", "sweater", "hoodie"}},
	{domain.CategoryAccessory, []string{"accessory", "hat", "scarf", "belt"}},
}

// Categorize maps free text (a stored category or a product title) to an outfit slot.
// Text matching no keyword falls back to accessory.
func Categorize(text string) domain.Category {
	if c, ok := matchCategory(text); ok {
		return c
	}
	return domain.CategoryAccessory
}

func matchCategory(text string) (domain.Category, bool) {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category, true
			}
		}
	}
	return "", false
}
