package embedder

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Extractor tries an ordered list of detector backends until one produces an
// embedding. Earlier backends handle off-angle or occluded faces better;
// later ones are the safety net. Extractor holds no mutable state and is safe
// for concurrent use.
type Extractor struct {
	backends []Backend
	timeout  time.Duration
	logger   *zap.Logger
}

// NewExtractor builds an extractor over the given backend chain. timeout
// bounds each individual backend attempt so a hanging backend cannot block
// the chain; zero disables the bound.
func NewExtractor(backends []Backend, timeout time.Duration, logger *zap.Logger) *Extractor {
	return &Extractor{
		backends: backends,
		timeout:  timeout,
		logger:   logger.Named("extractor"),
	}
}

// Extract returns the first embedding any backend produces for image. A
// backend reporting no face moves the chain along; so does any availability
// or transport failure, including an attempt timeout. Once the chain is
// exhausted the result is ErrNoFaceDetected if at least one backend ran
// detection and found nothing, and ErrBackendUnavailable if none could run.
func (e *Extractor) Extract(ctx context.Context, image []byte) (Embedding, error) {
	if len(e.backends) == 0 {
		return Embedding{}, ErrBackendUnavailable
	}

	sawNoFace := false
	for _, backend := range e.backends {
		if err := ctx.Err(); err != nil {
			return Embedding{}, err
		}

		emb, err := e.attempt(ctx, backend, image)
		if err == nil {
			return emb, nil
		}
		if errors.Is(err, ErrNoFaceDetected) {
			sawNoFace = true
			e.logger.Debug("backend found no face, falling back",
				zap.String("backend", backend.Name()))
			continue
		}
		e.logger.Warn("backend attempt failed, falling back",
			zap.String("backend", backend.Name()), zap.Error(err))
	}

	if sawNoFace {
		return Embedding{}, ErrNoFaceDetected
	}
	return Embedding{}, ErrBackendUnavailable
}

func (e *Extractor) attempt(ctx context.Context, backend Backend, image []byte) (Embedding, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	emb, err := backend.Extract(ctx, image)
	if err != nil {
		return Embedding{}, err
	}
	if len(emb.Vector) == 0 {
		return Embedding{}, ErrNoFaceDetected
	}
	if emb.Detector == "" {
		emb.Detector = backend.Name()
	}
	return emb, nil
}
