package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrica-vision/presenca/internal/domain"
)

func TestDetectAndEncode_Deterministic(t *testing.T) {
	p := New()
	image := make([]byte, 5000)
	for i := range image {
		image[i] = byte(i % 251)
	}

	first, err := p.DetectAndEncode(context.Background(), image)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := p.DetectAndEncode(context.Background(), image)
	require.NoError(t, err)

	assert.Equal(t, first[0].Embedding, second[0].Embedding)
	assert.Len(t, first[0].Embedding, domain.EncodingSize)
}

func TestDetectAndEncode_NormalizedEmbedding(t *testing.T) {
	p := New()

	faces, err := p.DetectAndEncode(context.Background(), make([]byte, 2048))
	require.NoError(t, err)
	require.Len(t, faces, 1)

	var norm float64
	for _, v := range faces[0].Embedding {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestDetectAndEncode_TinyImage(t *testing.T) {
	p := New()

	_, err := p.DetectAndEncode(context.Background(), []byte("too small"))
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}
