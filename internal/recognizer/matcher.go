package recognizer

import (
	"math"

	"github.com/fabrica-vision/presenca/internal/domain"
)

// Matcher resolve um embedding de rosto contra o catálogo conhecido por
// vizinho mais próximo (distância euclidiana).
type Matcher struct {
	tolerance float64
}

// NewMatcher creates a matcher with the given distance tolerance. A match
// requires distance strictly below the tolerance.
func NewMatcher(tolerance float64) *Matcher {
	return &Matcher{tolerance: tolerance}
}

// EuclideanDistance returns the L2 distance between two embeddings. Both
// must have the same length; mismatched vectors return +Inf so they can
// never win a nearest-neighbor search.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Confidence converts a distance into a score clamped to [0, 1].
func Confidence(distance float64) float64 {
	return math.Max(0, math.Min(1, 1-distance))
}

// Match finds the nearest catalog entry to the probe embedding. When the
// catalog is empty or the nearest distance is not strictly below the
// tolerance, the unknown result is returned. Ties resolve to the first
// entry in catalog order, keeping the result deterministic for a fixed
// snapshot.
func (m *Matcher) Match(probe []float64, snap *Snapshot, region domain.Region) domain.MatchResult {
	if snap == nil || len(snap.Students) == 0 {
		return domain.UnknownMatch(region)
	}

	bestIdx := -1
	bestDist := math.Inf(1)
	for i := range snap.Students {
		d := EuclideanDistance(probe, snap.Students[i].Embedding)
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestDist >= m.tolerance {
		return domain.UnknownMatch(region)
	}

	best := snap.Students[bestIdx]
	return domain.MatchResult{
		StudentID:  best.StudentID,
		Name:       best.Name,
		Confidence: Confidence(bestDist),
		Region:     region,
		IsMatch:    true,
	}
}
