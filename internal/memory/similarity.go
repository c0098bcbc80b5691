package memory

import "math"

// Cosine measures directional similarity between two fingerprints.
// Returns 0 when either vector has zero magnitude.
func Cosine(a, b Vector) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Euclidean measures magnitude closeness. Lower is more similar.
func Euclidean(a, b Vector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ResonanceScore combines directional similarity, a distance penalty
// and a reinforcement bonus into the ranking score:
//
//	cosine(a,b) - 0.1*euclidean(a,b) + weight*reinforcement
//
// The result is unbounded and only meaningful for relative ranking,
// never as an absolute confidence. Rounded to 4 decimals.
func ResonanceScore(a, b Vector, reinforcement, weight float64) float64 {
	score := Cosine(a, b) - 0.1*Euclidean(a, b) + weight*reinforcement
	return round4(score)
}

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
