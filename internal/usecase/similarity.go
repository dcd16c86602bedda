package usecase

import "math"

// Cosine returns the cosine similarity of a and b.
// Vectors of different length or with zero norm score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineBatch scores one query vector against every row of a matrix
func CosineBatch(query []float32, rows [][]float32) []float64 {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = Cosine(query, row)
	}
	return scores
}
