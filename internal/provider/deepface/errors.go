package deepface

import "errors"

var (
	ErrEncoderUnavailable = errors.New("deepface service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from deepface")
	ErrBadEmbeddingSize   = errors.New("deepface returned embedding with unexpected dimension")
)
