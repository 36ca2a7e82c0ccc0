package face

import (
	"fmt"

	"github.com/fabrica-vision/presenca/internal/config"
	"github.com/fabrica-vision/presenca/internal/provider"
	"github.com/fabrica-vision/presenca/internal/provider/deepface"
	"github.com/fabrica-vision/presenca/internal/provider/mock"
)

// EncoderType defines supported detector/encoder backends
type EncoderType string

const (
	// EncoderTypeDeepFace calls a DeepFace HTTP service (Facenet, 128-d)
	EncoderTypeDeepFace EncoderType = "deepface"
	// EncoderTypeMock generates deterministic embeddings (dev/test)
	EncoderTypeMock EncoderType = "mock"
)

// NewFaceEncoder creates a FaceEncoder instance based on configuration.
//
// Environment variables:
//   - PROVIDER_TYPE: "deepface" or "mock" (default: "mock")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
func NewFaceEncoder(cfg *config.Config) (provider.FaceEncoder, error) {
	switch EncoderType(cfg.ProviderType) {
	case EncoderTypeDeepFace:
		deepfaceConfig := deepface.Config{
			BaseURL: cfg.DeepFaceURL,
		}
		if deepfaceConfig.BaseURL == "" {
			deepfaceConfig.BaseURL = deepface.DefaultConfig().BaseURL
		}
		return deepface.NewProvider(deepfaceConfig), nil

	case EncoderTypeMock, "":
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.ProviderType, EncoderTypeDeepFace, EncoderTypeMock)
	}
}
