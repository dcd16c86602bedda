package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// HashingEmbedder is a deterministic bag-of-words encoder using the hashing trick.
// It needs no model download, so it backs local development and tests.
// Texts that share words land close together in cosine space.
type HashingEmbedder struct {
	dimension int
}

// NewHashingEmbedder creates an encoder producing vectors of the given dimension
func NewHashingEmbedder(dimension int) *HashingEmbedder {
	if dimension <= 0 {
		dimension = 384
	}
	return &HashingEmbedder{dimension: dimension}
}

// ModelName identifies the encoder and its dimension
func (h *HashingEmbedder) ModelName() string {
	return fmt.Sprintf("hashing-%d", h.dimension)
}

// Dimension returns the vector length
func (h *HashingEmbedder) Dimension() int { return h.dimension }

// Embed maps every lower-cased token (and each adjacent token pair) to a signed bucket,
// then L2-normalizes. Empty text yields the zero vector.
func (h *HashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float64, h.dimension)

	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		h.add(vec, tok, 1.0)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, h.dimension)
	if norm == 0 {
		return out, nil
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (h *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature))
	sum := hasher.Sum64()

	idx := int(sum % uint64(h.dimension))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}
