package usecase

import (
	"slices"

	"github.com/outfitplanner/backend/internal/domain"
)

// Aggregate deduplicates listings by (link, title), keeping the first occurrence,
// ranks them so listings with both image and price come first, and truncates to limit.
// The sort is stable: equally ranked listings keep their input order.
func Aggregate(listings []domain.Listing, limit int) []domain.Listing {
	if limit <= 0 {
		return []domain.Listing{}
	}

	seen := make(map[string]struct{}, len(listings))
	unique := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		key := l.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, l)
	}

	slices.SortStableFunc(unique, func(a, b domain.Listing) int {
		return completeness(b) - completeness(a)
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// completeness scores a listing 0..2 by whether it has an image and a price
func completeness(l domain.Listing) int {
	score := 0
	if l.Image != "" {
		score++
	}
	if l.Price != "" {
		score++
	}
	return score
}
