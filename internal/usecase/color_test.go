package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outfitplanner/backend/internal/domain"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Charcoal", "black"},
		{"navy", "blue"},
		{"Dark Denim", "blue"},
		{"teal", "blue"},
		{"Ivory", "white"},
		{"olive green", "green"},
		{"Mustard", "yellow"},
		{"beige", "brown"},
		{"Grey", "gray"},
		{"Lavender Mist", "lavender"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeColor(tt.in))
		})
	}
}

func TestDetectColor(t *testing.T) {
	assert.Equal(t, "blue", DetectColor("Slim Fit Navy Oxford Shirt"))
	assert.Equal(t, "", DetectColor("Graphic Tee"))
	assert.Equal(t, "", DetectColor(""))
}

func TestColorCompatibility(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"navy", "blue", 0.2},
		{"blue", "white", 0.1},
		{"white", "black", 0.1},
		{"red", "green", 0},
		{"", "white", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, ColorCompatibility(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Category
	}{
		{"shirt", domain.CategoryTop},
		{"Blouse", domain.CategoryTop},
		{"t-shirt", domain.CategoryTop},
		{"pant", domain.CategoryBottom},
		{"Slim Jeans", domain.CategoryBottom},
		{"shorts", domain.CategoryBottom},
		{"Chelsea Boots", domain.CategoryShoes},
		{"loafers", domain.CategoryShoes},
		{"denim jacket", domain.CategoryOuterwear},
		{"hoodie", domain.CategoryOuterwear},
		{"scarf", domain.CategoryAccessory},
		{"sunglasses", domain.CategoryAccessory},
		{"", domain.CategoryAccessory},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.in))
		})
	}
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-3, 0}), 1e-9)
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{1, 0, 0}), "dimension mismatch")
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 0}), "zero norm")
	assert.Zero(t, Cosine(nil, nil))

	scores := CosineBatch([]float32{1, 0}, [][]float32{{1, 0}, {0, 1}, {1}})
	assert.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.Zero(t, scores[2])
}
