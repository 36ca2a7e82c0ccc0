package provider

import (
	"context"

	"github.com/fabrica-vision/presenca/internal/domain"
)

// FaceEncoder define a interface para o serviço externo de detecção e
// extração de embeddings. The engine never inspects pixels itself; it only
// consumes the (region, embedding) pairs the encoder produces for a frame.
type FaceEncoder interface {
	// DetectAndEncode localiza faces na imagem e retorna, para cada uma,
	// a região em pixels e o embedding de 128 dimensões.
	// Zero faces is a normal outcome, not an error.
	DetectAndEncode(ctx context.Context, image []byte) ([]EncodedFace, error)
}

// EncodedFace is one detected face with its embedding, in detection order.
type EncodedFace struct {
	Region    domain.Region `json:"region"`
	Embedding []float64     `json:"-"`
}
