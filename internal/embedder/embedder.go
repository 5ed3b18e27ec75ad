package embedder

import (
	"context"
	"errors"
)

// Embedding is a fixed-length face embedding vector together with the model
// and detector backend that produced it. Embeddings from different models
// live in different vector spaces and must not be compared to each other.
type Embedding struct {
	Vector   []float32 `json:"vector"`
	Model    string    `json:"model"`
	Detector string    `json:"detector"`
}

// Backend is one concrete detection+embedding strategy in the fallback
// chain. Extract performs detection, alignment and embedding in one attempt.
type Backend interface {
	Name() string
	Extract(ctx context.Context, image []byte) (Embedding, error)
}

var (
	// ErrNoFaceDetected means detection ran but found no usable face.
	ErrNoFaceDetected = errors.New("no face detected in image")
	// ErrBackendUnavailable means no detector backend could run at all.
	ErrBackendUnavailable = errors.New("no detector backend available")
)
