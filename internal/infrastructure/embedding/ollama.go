package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/outfitplanner/backend/internal/domain"
)

// OllamaConfig holds the configuration for an Ollama embedding endpoint
type OllamaConfig struct {
	BaseURL string // e.g. http://localhost:11434
	Model   string // e.g. all-minilm, nomic-embed-text
	Token   string // Bearer token, empty = no auth
	Timeout time.Duration
}

// OllamaEmbedder implements domain.Embedder using the Ollama REST API
type OllamaEmbedder struct {
	cfg        OllamaConfig
	httpClient *http.Client
}

// NewOllamaEmbedder creates a new Ollama-backed embedder
func NewOllamaEmbedder(cfg OllamaConfig) *OllamaEmbedder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OllamaEmbedder{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ModelName returns the embedding model identifier
func (o *OllamaEmbedder) ModelName() string {
	return o.cfg.Model
}

// Embed generates a vector embedding for the given text
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := o.embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no embeddings", domain.ErrEmbeddingFailure)
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one call
func (o *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vectors, err := o.embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: ollama returned %d embeddings for %d inputs", domain.ErrEmbeddingFailure, len(vectors), len(texts))
	}
	return vectors, nil
}

func (o *OllamaEmbedder) embed(ctx context.Context, input interface{}) ([][]float32, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model": o.cfg.Model,
		"input": input,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed encode: %w", err)
	}

	url := strings.TrimRight(o.cfg.BaseURL, "/") + "/api/embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.Token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrEmbeddingFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrEmbeddingFailure, resp.StatusCode, string(body))
	}

	var decoded struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrEmbeddingFailure, err)
	}
	return decoded.Embeddings, nil
}
