package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfitplanner/backend/config"
	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/infrastructure/cache"
	"github.com/outfitplanner/backend/internal/infrastructure/embedding"
	"github.com/outfitplanner/backend/internal/infrastructure/memstore"
	"github.com/outfitplanner/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// stubSource answers every search with fixed listings after an optional delay
type stubSource struct {
	name     string
	listings []domain.Listing
	delay    time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(ctx context.Context, query string, limit int) ([]domain.Listing, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.listings, nil
}

type testServer struct {
	router    *gin.Engine
	uploadDir string
	wardrobe  *memstore.WardrobeStore
}

// setupTestRouter wires real services over in-memory stores and stub storefronts
func setupTestRouter(t *testing.T, sources ...domain.Source) *testServer {
	t.Helper()

	if len(sources) == 0 {
		sources = []domain.Source{&stubSource{name: "outfitters", listings: []domain.Listing{
			{Title: "Navy Shirt", Link: "https://outfitters.example/p/1", Price: "2990", Image: "https://img/1.jpg"},
			{Title: "White Shirt", Link: "https://outfitters.example/p/2"},
		}}}
	}

	uploadDir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
			UploadDir:      uploadDir,
		},
		Cache: config.CacheConfig{Type: "memory"},
	}

	resultCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = resultCache.Close() })

	wardrobeStore := memstore.NewWardrobeStore()
	index := usecase.NewEmbeddingIndex(embedding.NewHashingEmbedder(64), wardrobeStore)

	services := Services{
		Search: usecase.NewSearchService(resultCache, usecase.NewCoordinator(sources, time.Second), usecase.SearchServiceConfig{
			BatchTimeout: 200 * time.Millisecond,
		}),
		Recommend: usecase.NewRecommendService(wardrobeStore, index),
		Wardrobe:  usecase.NewWardrobeService(wardrobeStore, index),
		Outfits:   usecase.NewOutfitService(memstore.NewOutfitStore()),
	}

	return &testServer{
		router:    SetupRouter(cfg, NewHandler(services, uploadDir)),
		uploadDir: uploadDir,
		wardrobe:  wardrobeStore,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do("GET", "/health", "")
		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		response := decode[map[string]interface{}](t, w)
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "outfitplanner-backend" {
			t.Errorf("service = %v, want outfitplanner-backend", response["service"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		srv := setupTestRouter(t)

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := srv.do(method, "/health", "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestProductSearchEndpoint(t *testing.T) {
	t.Run("live then cached", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do("POST", "/api/v1/products/search", `{"category":"shirt","color":"navy","max_results":5}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		first := decode[domain.SearchResponse](t, w)
		assert.Equal(t, domain.ResultSourceLive, first.Source)
		require.Len(t, first.Products, 2)
		assert.Equal(t, "Navy Shirt", first.Products[0].Title)

		w = srv.do("POST", "/api/v1/products/search", `{"category":" Shirt ","color":"NAVY","location":"Lahore"}`)
		require.Equal(t, http.StatusOK, w.Code)
		second := decode[domain.SearchResponse](t, w)
		assert.Equal(t, domain.ResultSourceCache, second.Source)
		assert.Equal(t, first.Products, second.Products)
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		srv := setupTestRouter(t)

		for _, body := range []string{`{}`, `{"category":"shirt","max_results":-1}`, `not json`} {
			w := srv.do("POST", "/api/v1/products/search", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("body %s: Status = %d, want %d", body, w.Code, http.StatusBadRequest)
			}
		}
	})

	t.Run("batch timeout is a single 500", func(t *testing.T) {
		srv := setupTestRouter(t, &stubSource{name: "slow", delay: 5 * time.Second})

		w := srv.do("POST", "/api/v1/products/search", `{"category":"shirt"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		response := decode[map[string]string](t, w)
		assert.NotEmpty(t, response["error"])
	})

	t.Run("validates HTTP method", func(t *testing.T) {
		srv := setupTestRouter(t)

		for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
			w := srv.do(method, "/api/v1/products/search", "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestWardrobeEndpoints(t *testing.T) {
	srv := setupTestRouter(t)

	w := srv.do("POST", "/api/v1/wardrobe", `{"name":"Navy Shirt","category":"Shirt","color":"navy","season":"Summer","tags":["office"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.WardrobeItem](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "shirt", created.Category)
	assert.Empty(t, created.Embedding)
	assert.NotContains(t, w.Body.String(), "embedding")

	w = srv.do("GET", "/api/v1/wardrobe/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do("PUT", "/api/v1/wardrobe/"+created.ID, `{"name":"Navy Shirt","category":"shirt","color":"blue"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "blue", decode[domain.WardrobeItem](t, w).Color)

	w = srv.do("POST", "/api/v1/wardrobe", `{"name":"no category"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do("GET", "/api/v1/wardrobe/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do("POST", "/api/v1/wardrobe/embeddings/refresh?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do("POST", "/api/v1/wardrobe/embeddings/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[map[string]interface{}](t, w)["updated"])

	w = srv.do("DELETE", "/api/v1/wardrobe/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = srv.do("DELETE", "/api/v1/wardrobe/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do("DELETE", "/api/v1/wardrobe", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do("GET", "/api/v1/wardrobe", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.WardrobeItem](t, w))
}

func TestWardrobeUpload(t *testing.T) {
	srv := setupTestRouter(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("name", "Chelsea Boots"))
	require.NoError(t, form.WriteField("category", "boots"))
	require.NoError(t, form.WriteField("tags", "leather, winter ,"))
	part, err := form.CreateFormFile("image", "Boots.PNG")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/api/v1/wardrobe", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[domain.WardrobeItem](t, w)
	assert.Equal(t, []string{"leather", "winter"}, item.Tags)
	require.True(t, strings.HasPrefix(item.Image, "/uploads/"), item.Image)
	assert.True(t, strings.HasSuffix(item.Image, ".png"))

	stored, err := os.ReadFile(filepath.Join(srv.uploadDir, strings.TrimPrefix(item.Image, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(stored))

	w = srv.do("GET", item.Image, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecommendEndpoint(t *testing.T) {
	srv := setupTestRouter(t)

	w := srv.do("GET", "/api/v1/recommend", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do("GET", "/api/v1/recommend?event=beach", "")
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode[map[string]interface{}](t, w)
	outfit := empty["outfit"].(map[string]interface{})
	for _, c := range domain.Categories {
		v, ok := outfit[string(c)]
		assert.True(t, ok, "category %s present", c)
		assert.Nil(t, v)
	}

	for _, body := range []string{
		`{"name":"Linen Shirt","category":"shirt","season":"summer"}`,
		`{"name":"Chino Shorts","category":"shorts","season":"summer"}`,
	} {
		require.Equal(t, http.StatusCreated, srv.do("POST", "/api/v1/wardrobe", body).Code)
	}

	w = srv.do("GET", "/api/v1/recommend?event=summer+beach+party&season=summer&top_k=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[domain.RecommendResponse](t, w)
	require.NotNil(t, resp.Outfit[domain.CategoryTop])
	require.NotNil(t, resp.Outfit[domain.CategoryBottom])
	assert.Equal(t, "Linen Shirt", resp.Outfit[domain.CategoryTop].Name)
	assert.Equal(t, "Chino Shorts", resp.Outfit[domain.CategoryBottom].Name)
	assert.Nil(t, resp.Outfit[domain.CategoryShoes])
	assert.Len(t, resp.Alternatives[domain.CategoryTop], 1)
}

func TestCartAndOutfitEndpoints(t *testing.T) {
	srv := setupTestRouter(t)

	w := srv.do("POST", "/api/v1/users/u1/outfits/build", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")

	for _, title := range []string{"Navy Oxford Shirt", "White Chino Pant", "Black Boots"} {
		w = srv.do("POST", "/api/v1/users/u1/cart", `{"listing":{"title":"`+title+`","link":"https://shop/`+title+`"}}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = srv.do("GET", "/api/v1/users/u1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[[]domain.CartItem](t, w)
	require.Len(t, cart, 3)
	assert.Equal(t, domain.CategoryShoes, cart[2].Category)

	w = srv.do("POST", "/api/v1/users/u1/outfits/build", "")
	require.Equal(t, http.StatusOK, w.Code)
	built := decode[struct {
		Combinations []domain.OutfitCombination `json:"combinations"`
	}](t, w)
	require.Len(t, built.Combinations, 1)
	combo := built.Combinations[0]
	assert.InDelta(t, 0.2, combo.Score, 1e-9)

	payload, err := json.Marshal(map[string]interface{}{"name": "Friday", "combination": combo})
	require.NoError(t, err)
	w = srv.do("POST", "/api/v1/users/u1/outfits", string(payload))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do("POST", "/api/v1/users/u1/outfits", `{"name":"bad","combination":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do("GET", "/api/v1/users/u1/outfits", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.SavedOutfit](t, w), 1)

	w = srv.do("DELETE", "/api/v1/users/u1/cart/"+cart[0].ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = srv.do("DELETE", "/api/v1/users/u1/cart/"+cart[0].ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	srv := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:5173")
	}
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	srv := setupTestRouter(t)
	srv.router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := srv.do("GET", "/panic", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupTestRouter(t)

	srv.do("POST", "/api/v1/products/search", `{"category":"shirt"}`)
	w := srv.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "outfitplanner_source_requests_total")
}

// TestJSONResponses tests that API responses are valid JSON
func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"POST", "/api/v1/products/search"},
		{"GET", "/api/v1/recommend"},
		{"GET", "/api/v1/wardrobe"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			srv := setupTestRouter(t)

			w := srv.do(endpoint.method, endpoint.path, "")

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}
