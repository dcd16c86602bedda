package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrSourceFailure is returned when a storefront request fails
	ErrSourceFailure = errors.New("storefront request failed")

	// ErrCircuitOpen is returned when a storefront is skipped because its circuit breaker is open
	ErrCircuitOpen = errors.New("storefront circuit open")

	// ErrSearchTimeout is returned when the whole search batch exceeds its deadline
	ErrSearchTimeout = errors.New("product search timed out")

	// ErrItemNotFound is returned when a wardrobe item, cart item or outfit does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrEmbeddingFailure is returned when the text encoder fails
	ErrEmbeddingFailure = errors.New("embedding request failed")

	// ErrEmptyCart is returned when outfits are built from a cart with no items
	ErrEmptyCart = errors.New("cart is empty")
)
