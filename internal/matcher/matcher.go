package matcher

import (
	"math"
	"sort"

	"github.com/example/faceverify/internal/embedder"
)

// RefDistance records the measured distance between the live embedding and
// one reference embedding, for diagnostics. Skipped pairs carry distance -1;
// measured distances are always non-negative.
type RefDistance struct {
	ReferenceKey string  `json:"reference_key"`
	Distance     float64 `json:"distance"`
	Skipped      bool    `json:"skipped,omitempty"`
	Note         string  `json:"note,omitempty"`
}

// Decision is the outcome of comparing one live embedding against an
// identity's reference embeddings. It is never persisted.
type Decision struct {
	Matched       bool          `json:"matched"`
	BestDistance  float64       `json:"best_distance"`
	BestReference string        `json:"best_reference,omitempty"`
	Backend       string        `json:"backend,omitempty"`
	Diagnostics   []RefDistance `json:"diagnostics"`
	Note          string        `json:"note,omitempty"`
}

// Match compares live against every reference embedding and applies the
// inclusive distance threshold. References produced by a different model than
// the live embedding live in an incompatible vector space and are skipped
// rather than mismeasured. An empty reference map yields a no-match decision,
// not an error.
func Match(live embedder.Embedding, refs map[string]embedder.Embedding, threshold float64) Decision {
	decision := Decision{
		BestDistance: math.Inf(1),
		Backend:      live.Detector,
		Diagnostics:  make([]RefDistance, 0, len(refs)),
	}

	if len(refs) == 0 {
		decision.Note = "no usable reference embeddings"
		return decision
	}

	keys := make([]string, 0, len(refs))
	for key := range refs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	compared := 0
	for _, key := range keys {
		ref := refs[key]
		if ref.Model != live.Model {
			decision.Diagnostics = append(decision.Diagnostics, RefDistance{
				ReferenceKey: key,
				Distance:     -1,
				Skipped:      true,
				Note:         "embedding model mismatch",
			})
			continue
		}
		if len(ref.Vector) != len(live.Vector) {
			decision.Diagnostics = append(decision.Diagnostics, RefDistance{
				ReferenceKey: key,
				Distance:     -1,
				Skipped:      true,
				Note:         "embedding dimension mismatch",
			})
			continue
		}

		dist := CosineDistance(live.Vector, ref.Vector)
		decision.Diagnostics = append(decision.Diagnostics, RefDistance{
			ReferenceKey: key,
			Distance:     dist,
		})
		compared++
		if dist < decision.BestDistance {
			decision.BestDistance = dist
			decision.BestReference = key
		}
	}

	if compared == 0 {
		decision.Note = "no comparable reference embeddings"
		return decision
	}

	decision.Matched = decision.BestDistance <= threshold
	return decision
}

// CosineDistance returns 1 - cos(a, b) in float64: 0 for identical direction,
// 2 for opposite. A zero-magnitude vector yields the neutral distance 1.
func CosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	n := math.Sqrt(normA) * math.Sqrt(normB)
	if n == 0 {
		return 1.0
	}
	return 1.0 - dot/n
}
