package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Storefront fan-out
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitplanner_source_requests_total",
			Help: "Storefront searches by source and outcome",
		},
		[]string{"source", "outcome"}, // "ok", "error", "timeout", "panic", "circuit_open"
	)

	SourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outfitplanner_source_duration_seconds",
			Help:    "Duration of storefront searches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	SourceListings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitplanner_source_listings_total",
			Help: "Listings returned by each storefront",
		},
		[]string{"source"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outfitplanner_source_breaker_state",
			Help: "Circuit breaker state per storefront (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)

	// Result cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitplanner_cache_lookups_total",
			Help: "Result cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outfitplanner_cache_evictions_total",
			Help: "Expired result cache entries removed by sweep or read",
		},
	)

	// Recommendation
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outfitplanner_recommend_duration_seconds",
			Help:    "Duration of outfit recommendations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmbeddingsComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outfitplanner_embeddings_computed_total",
			Help: "Wardrobe item embeddings computed",
		},
	)
)
