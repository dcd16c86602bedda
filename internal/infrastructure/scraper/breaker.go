package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/logging"
	"github.com/outfitplanner/backend/internal/metrics"
)

// BreakerSource wraps a storefront with a circuit breaker so a shop that keeps
// failing is skipped immediately instead of burning its whole timeout on every search.
type BreakerSource struct {
	source domain.Source
	cb     *gobreaker.CircuitBreaker[[]domain.Listing]
}

// NewBreakerSource trips after `failures` consecutive failures and probes again after timeout
func NewBreakerSource(source domain.Source, failures uint32, timeout time.Duration) *BreakerSource {
	if failures == 0 {
		failures = 5
	}
	name := source.Name()
	metrics.BreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[[]domain.Listing](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// caller cancellation says nothing about the storefront's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("source", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &BreakerSource{source: source, cb: cb}
}

// Name returns the wrapped storefront identifier
func (b *BreakerSource) Name() string {
	return b.source.Name()
}

// Search delegates to the wrapped storefront unless the circuit is open
func (b *BreakerSource) Search(ctx context.Context, query string, limit int) ([]domain.Listing, error) {
	listings, err := b.cb.Execute(func() ([]domain.Listing, error) {
		return b.source.Search(ctx, query, limit)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCircuitOpen, b.Name(), err)
	}
	return listings, err
}

// State reports the current breaker state
func (b *BreakerSource) State() gobreaker.State {
	return b.cb.State()
}
