// Package vector implements similarity search as a brute-force scan
// over the embedding store. Collections stay small enough per tenant
// that a scored scan beats maintaining an index.
package vector

import "math"

// Cosine returns the cosine similarity between two vectors.
// Mismatched dimensions and zero-magnitude vectors score 0 rather
// than erroring so one bad stored vector cannot fail a whole search.
// Accumulation is in float64 to avoid drift on long vectors.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Rounding can push the ratio a hair past the mathematical range.
	if similarity > 1 {
		similarity = 1
	}
	if similarity < -1 {
		similarity = -1
	}
	return similarity
}
