package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfitplanner/backend/internal/domain"
)

type stubSource struct {
	name  string
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(ctx context.Context, query string, limit int) ([]domain.Listing, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Listing{{Title: query}}, nil
}

func TestBreakerSource_PassesThrough(t *testing.T) {
	stub := &stubSource{name: "breaker-pass"}
	source := NewBreakerSource(stub, 2, time.Minute)

	listings, err := source.Search(context.Background(), "shirt", 3)

	require.NoError(t, err)
	assert.Equal(t, "breaker-pass", source.Name())
	assert.Equal(t, []domain.Listing{{Title: "shirt"}}, listings)
}

func TestBreakerSource_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubSource{name: "breaker-open", err: domain.ErrSourceFailure}
	source := NewBreakerSource(stub, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := source.Search(ctx, "shirt", 3)
		assert.ErrorIs(t, err, domain.ErrSourceFailure)
	}
	assert.Equal(t, gobreaker.StateOpen, source.State())

	_, err := source.Search(ctx, "shirt", 3)
	assert.ErrorIs(t, err, domain.ErrCircuitOpen)
	assert.Equal(t, 2, stub.calls, "open circuit must not reach the storefront")
}

func TestBreakerSource_CancellationDoesNotTrip(t *testing.T) {
	stub := &stubSource{name: "breaker-cancel", err: context.Canceled}
	source := NewBreakerSource(stub, 1, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := source.Search(context.Background(), "shirt", 3)
		assert.True(t, errors.Is(err, context.Canceled))
	}
	assert.Equal(t, gobreaker.StateClosed, source.State())
}
