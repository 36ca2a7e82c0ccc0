package recognizer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fabrica-vision/presenca/internal/domain"
)

func embeddingAt(value float64) []float64 {
	e := make([]float64, domain.EncodingSize)
	e[0] = value
	return e
}

func snapshotWith(students ...domain.Student) *Snapshot {
	return &Snapshot{Students: students, LoadedAt: time.Now()}
}

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        embeddingAt(0.5),
			b:        embeddingAt(0.5),
			expected: 0,
		},
		{
			name:     "unit apart on one axis",
			a:        embeddingAt(0),
			b:        embeddingAt(1),
			expected: 1,
		},
		{
			name:     "3-4-5 triangle",
			a:        []float64{0, 0},
			b:        []float64{3, 4},
			expected: 5,
		},
		{
			name:     "mismatched lengths",
			a:        []float64{1, 2},
			b:        []float64{1, 2, 3},
			expected: math.Inf(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EuclideanDistance(tt.a, tt.b), 1e-9)
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		expected float64
	}{
		{"exact match", 0, 1},
		{"mid distance", 0.4, 0.6},
		{"distance one", 1, 0},
		{"beyond one clamps to zero", 1.7, 0},
		{"negative distance clamps to one", -0.1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Confidence(tt.distance), 1e-9)
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	region := domain.Region{Top: 10, Right: 110, Bottom: 90, Left: 30}
	alice := domain.Student{StudentID: "alice-01", Name: "Alice Souza", Embedding: embeddingAt(0)}
	bruno := domain.Student{StudentID: "bruno_02", Name: "Bruno Lima", Embedding: embeddingAt(2)}

	m := NewMatcher(0.5)

	t.Run("empty snapshot returns unknown", func(t *testing.T) {
		result := m.Match(embeddingAt(0), snapshotWith(), region)
		assert.False(t, result.IsMatch)
		assert.Empty(t, result.StudentID)
		assert.Equal(t, region, result.Region)
	})

	t.Run("nil snapshot returns unknown", func(t *testing.T) {
		result := m.Match(embeddingAt(0), nil, region)
		assert.False(t, result.IsMatch)
	})

	t.Run("nearest neighbor wins", func(t *testing.T) {
		result := m.Match(embeddingAt(0.1), snapshotWith(alice, bruno), region)
		assert.True(t, result.IsMatch)
		assert.Equal(t, "alice-01", result.StudentID)
		assert.Equal(t, "Alice Souza", result.Name)
		assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	})

	t.Run("distance equal to tolerance is not a match", func(t *testing.T) {
		result := m.Match(embeddingAt(0.5), snapshotWith(alice), region)
		assert.False(t, result.IsMatch)
	})

	t.Run("distance just below tolerance matches", func(t *testing.T) {
		result := m.Match(embeddingAt(0.499), snapshotWith(alice), region)
		assert.True(t, result.IsMatch)
	})

	t.Run("nearest outside tolerance returns unknown", func(t *testing.T) {
		result := m.Match(embeddingAt(1.2), snapshotWith(alice, bruno), region)
		assert.False(t, result.IsMatch)
	})

	t.Run("tie resolves to first catalog entry", func(t *testing.T) {
		twinA := domain.Student{StudentID: "twin-aa", Name: "Twin A", Embedding: embeddingAt(1)}
		twinB := domain.Student{StudentID: "twin-bb", Name: "Twin B", Embedding: embeddingAt(1)}
		result := m.Match(embeddingAt(0.7), snapshotWith(twinA, twinB), region)
		assert.True(t, result.IsMatch)
		assert.Equal(t, "twin-aa", result.StudentID)
	})

	t.Run("deterministic for a fixed snapshot", func(t *testing.T) {
		snap := snapshotWith(alice, bruno)
		probe := embeddingAt(0.2)
		first := m.Match(probe, snap, region)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, m.Match(probe, snap, region))
		}
	})
}
