package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/fabrica-vision/presenca/internal/domain"
	"github.com/fabrica-vision/presenca/internal/provider"
)

// Provider implementa provider.FaceEncoder para testes e desenvolvimento.
// It derives one deterministic embedding from the image bytes, so the same
// frame always yields the same face.
type Provider struct{}

// New cria uma nova instância do mock encoder
func New() *Provider {
	return &Provider{}
}

// DetectAndEncode returns a single synthetic face for any plausible image.
// Images under 1KB are treated as corrupt; empty-looking frames produce
// zero faces rather than an error.
func (p *Provider) DetectAndEncode(ctx context.Context, image []byte) ([]provider.EncodedFace, error) {
	if len(image) < 1000 {
		return nil, domain.ErrInvalidImage
	}

	return []provider.EncodedFace{
		{
			Region: domain.Region{
				Top:    48,
				Right:  592,
				Bottom: 432,
				Left:   64,
			},
			Embedding: generateEmbedding(image),
		},
	}, nil
}

// generateEmbedding gera embedding determinístico baseado no hash da imagem
func generateEmbedding(image []byte) []float64 {
	hash := sha256.Sum256(image)
	embedding := make([]float64, domain.EncodingSize)
	hashLen := len(hash)

	for i := 0; i < domain.EncodingSize; i++ {
		idx := i % hashLen
		embedding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding
}

var _ provider.FaceEncoder = (*Provider)(nil)
