package deepface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/fabrica-vision/presenca/internal/domain"
	"github.com/fabrica-vision/presenca/internal/provider"
)

// Provider implements provider.FaceEncoder using the DeepFace API.
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace encoder provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectAndEncode sends the frame to DeepFace and converts each result into
// a (region, embedding) pair. Results keep the detector's order.
func (p *Provider) DetectAndEncode(ctx context.Context, image []byte) ([]provider.EncodedFace, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Represent(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("detect and encode: %w", err)
	}

	faces := make([]provider.EncodedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		if len(result.Embedding) != domain.EncodingSize {
			return nil, fmt.Errorf("%w: got %d, want %d",
				ErrBadEmbeddingSize, len(result.Embedding), domain.EncodingSize)
		}

		// DeepFace reports (x, y, w, h); the engine uses the
		// (top, right, bottom, left) convention.
		area := result.FacialArea
		faces = append(faces, provider.EncodedFace{
			Region: domain.Region{
				Top:    area.Y,
				Right:  area.X + area.W,
				Bottom: area.Y + area.H,
				Left:   area.X,
			},
			Embedding: result.Embedding,
		})
	}

	return faces, nil
}

var _ provider.FaceEncoder = (*Provider)(nil)
