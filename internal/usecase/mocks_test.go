package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/outfitplanner/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string][]domain.Listing
	ttls      map[string]time.Duration
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]domain.Listing),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []domain.Listing, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockSource is a mock implementation of domain.Source
type MockSource struct {
	name     string
	listings []domain.Listing
	err      error
	delay    time.Duration
	panicMsg string
	honorCtx bool

	mu        sync.Mutex
	calls     int
	lastQuery string
	lastLimit int
}

func (m *MockSource) Name() string { return m.name }

func (m *MockSource) Search(ctx context.Context, query string, limit int) ([]domain.Listing, error) {
	m.mu.Lock()
	m.calls++
	m.lastQuery = query
	m.lastLimit = limit
	m.mu.Unlock()

	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.delay > 0 {
		if m.honorCtx {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			time.Sleep(m.delay)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.listings, nil
}

func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockEmbedder returns fixed vectors per text and a fallback for anything else
type MockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    []string
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *MockEmbedder) ModelName() string { return "mock" }

// MockWardrobeRepository is a minimal in-memory domain.WardrobeRepository
type MockWardrobeRepository struct {
	items          []domain.WardrobeItem
	listError      error
	embeddingError error
	embedded       map[string][]float32
}

func NewMockWardrobeRepository(items ...domain.WardrobeItem) *MockWardrobeRepository {
	return &MockWardrobeRepository{items: items, embedded: make(map[string][]float32)}
}

func (m *MockWardrobeRepository) index(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MockWardrobeRepository) Create(ctx context.Context, item *domain.WardrobeItem) error {
	m.items = append(m.items, *item)
	return nil
}

func (m *MockWardrobeRepository) Get(ctx context.Context, id string) (*domain.WardrobeItem, error) {
	i := m.index(id)
	if i < 0 {
		return nil, domain.ErrItemNotFound
	}
	item := m.items[i]
	return &item, nil
}

func (m *MockWardrobeRepository) List(ctx context.Context) ([]domain.WardrobeItem, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return append([]domain.WardrobeItem(nil), m.items...), nil
}

func (m *MockWardrobeRepository) Update(ctx context.Context, item *domain.WardrobeItem) error {
	i := m.index(item.ID)
	if i < 0 {
		return domain.ErrItemNotFound
	}
	m.items[i] = *item
	return nil
}

func (m *MockWardrobeRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	if m.embeddingError != nil {
		return m.embeddingError
	}
	i := m.index(id)
	if i < 0 {
		return domain.ErrItemNotFound
	}
	m.items[i].Embedding = embedding
	m.embedded[id] = embedding
	return nil
}

func (m *MockWardrobeRepository) Delete(ctx context.Context, id string) error {
	i := m.index(id)
	if i < 0 {
		return domain.ErrItemNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

func (m *MockWardrobeRepository) Clear(ctx context.Context) error {
	m.items = nil
	return nil
}
