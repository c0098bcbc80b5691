package memory

// VectorDim is the fingerprint dimensionality. Components are, in
// order: character-code sum, character length, distinct character
// count, and a rolling trigram hash.
const VectorDim = 4

// trigramMod bounds the rolling trigram hash component.
const trigramMod = 10000

// Vector is a fixed-length numeric fingerprint of a text entry.
// Components are integral-valued but held as float64 for scoring.
type Vector []float64

// Valid reports whether the vector has the expected dimensionality.
func (v Vector) Valid() bool { return len(v) == VectorDim }

// Equal reports exact component-wise equality. Cache hits require
// this, not similarity.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// Encode fingerprints a text entry. It is pure and deterministic, has
// no error condition, and captures four cheap lexical signals rather
// than semantic meaning: collisions between unrelated strings are an
// accepted precision/cost trade-off. Empty input yields a zero vector.
func Encode(text string) Vector {
	runes := []rune(text)

	var codeSum float64
	distinct := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		codeSum += float64(r)
		distinct[r] = struct{}{}
	}

	// Rolling product hash over each consecutive rune triple. The
	// running sum is reduced every step so it never overflows.
	var trigram int64
	if len(runes) > 2 {
		for i := 0; i+2 < len(runes); i++ {
			p := int64(runes[i]) * int64(runes[i+1]) * int64(runes[i+2])
			trigram = (trigram + p) % trigramMod
		}
	}

	return Vector{
		codeSum,
		float64(len(runes)),
		float64(len(distinct)),
		float64(trigram),
	}
}
