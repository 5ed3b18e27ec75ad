package usecase

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/faceverify/internal/blobstore"
	"github.com/example/faceverify/internal/embedder"
	"github.com/example/faceverify/internal/refcache"
	"github.com/example/faceverify/internal/repository"
)

type stubRefs struct {
	refs map[string]embedder.Embedding
	err  error
}

func (s *stubRefs) EnsureFresh(ctx context.Context, identity string) (map[string]embedder.Embedding, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.refs, nil
}

type stubLiveExtractor struct {
	embedding embedder.Embedding
	err       error
	calls     int
}

func (s *stubLiveExtractor) Extract(ctx context.Context, image []byte) (embedder.Embedding, error) {
	s.calls++
	if s.err != nil {
		return embedder.Embedding{}, s.err
	}
	return s.embedding, nil
}

type stubRepo struct {
	mu      sync.Mutex
	logs    []*repository.VerificationLog
	saveErr error
}

func (s *stubRepo) SaveLog(ctx context.Context, log *repository.VerificationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.logs = append(s.logs, log)
	return nil
}

func (s *stubRepo) FindByRequestIDAndIdentity(ctx context.Context, requestID, identity string) (*repository.VerificationLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, log := range s.logs {
		if log.RequestID == requestID && log.Identity == identity {
			return log, nil
		}
	}
	return nil, errors.New("record not found")
}

func (s *stubRepo) AggregateMetrics(ctx context.Context) (*repository.MetricsAggregation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agg := &repository.MetricsAggregation{TotalCount: int64(len(s.logs))}
	for _, log := range s.logs {
		if log.Matched {
			agg.MatchCount++
		}
	}
	return agg, nil
}

type stubResultCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newStubResultCache() *stubResultCache {
	return &stubResultCache{values: make(map[string]string)}
}

func (s *stubResultCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value.(string)
	return nil
}

func (s *stubResultCache) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func arcface(vector ...float32) embedder.Embedding {
	return embedder.Embedding{Vector: vector, Model: "ArcFace", Detector: "retinaface"}
}

func newTestUseCase(refs ReferenceProvider, extractor LiveExtractor, repo AuditRepository, cache Cache) *VerificationUseCase {
	return NewVerificationUseCase(refs, extractor, blobstore.NewMemoryStore(), repo, cache, 0.68, zap.NewNop())
}

func TestVerifyUnregisteredIdentity(t *testing.T) {
	uc := newTestUseCase(
		&stubRefs{err: refcache.ErrNotRegistered},
		&stubLiveExtractor{},
		&stubRepo{},
		nil,
	)

	_, _, err := uc.Verify(context.Background(), "Ghost", pngImage(t))
	if !errors.Is(err, refcache.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestVerifyNoFaceInLiveImage(t *testing.T) {
	extractor := &stubLiveExtractor{err: embedder.ErrNoFaceDetected}
	uc := newTestUseCase(
		&stubRefs{refs: map[string]embedder.Embedding{"users/alice/ref_a.jpg": arcface(1, 0)}},
		extractor,
		&stubRepo{},
		nil,
	)

	_, _, err := uc.Verify(context.Background(), "alice", pngImage(t))
	if !errors.Is(err, embedder.ErrNoFaceDetected) {
		t.Fatalf("expected ErrNoFaceDetected, got %v", err)
	}
}

func TestVerifyBackendsUnavailable(t *testing.T) {
	uc := newTestUseCase(
		&stubRefs{refs: map[string]embedder.Embedding{"users/alice/ref_a.jpg": arcface(1, 0)}},
		&stubLiveExtractor{err: embedder.ErrBackendUnavailable},
		&stubRepo{},
		nil,
	)

	_, _, err := uc.Verify(context.Background(), "alice", pngImage(t))
	if !errors.Is(err, embedder.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestVerifyInvalidImage(t *testing.T) {
	uc := newTestUseCase(
		&stubRefs{refs: map[string]embedder.Embedding{"users/alice/ref_a.jpg": arcface(1, 0)}},
		&stubLiveExtractor{},
		&stubRepo{},
		nil,
	)

	_, _, err := uc.Verify(context.Background(), "alice", []byte("definitely not an image"))
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestVerifySamePersonMatches(t *testing.T) {
	repo := &stubRepo{}
	cache := newStubResultCache()
	uc := newTestUseCase(
		&stubRefs{refs: map[string]embedder.Embedding{"users/alice/ref_a.jpg": arcface(0.8, 0.6)}},
		&stubLiveExtractor{embedding: arcface(1, 0)}, // cosine distance 0.2
		repo,
		cache,
	)

	requestID, decision, err := uc.Verify(context.Background(), "  Alice ", pngImage(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Matched {
		t.Fatalf("expected match, got %+v", decision)
	}
	if decision.BestDistance > 0.68 {
		t.Fatalf("best distance above threshold: %f", decision.BestDistance)
	}
	if requestID == "" {
		t.Fatal("expected a request ID")
	}

	// Audit trail: persisted log and cached result under the normalized identity.
	if len(repo.logs) != 1 {
		t.Fatalf("expected one verification log, got %d", len(repo.logs))
	}
	if repo.logs[0].Identity != "alice" {
		t.Fatalf("expected normalized identity, got %q", repo.logs[0].Identity)
	}
	result, err := uc.GetResult(context.Background(), "alice", requestID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if !result.Matched || result.RequestID != requestID {
		t.Fatalf("unexpected cached result: %+v", result)
	}
}

func TestVerifyDifferentPersonNoMatch(t *testing.T) {
	repo := &stubRepo{}
	uc := newTestUseCase(
		&stubRefs{refs: map[string]embedder.Embedding{"users/alice/ref_a.jpg": arcface(0.1, 0.99498744)}},
		&stubLiveExtractor{embedding: arcface(1, 0)}, // cosine distance 0.9
		repo,
		nil,
	)

	_, decision, err := uc.Verify(context.Background(), "alice", pngImage(t))
	if err != nil {
		t.Fatalf("a non-matching face is not an error: %v", err)
	}
	if decision.Matched {
		t.Fatalf("expected no match, got %+v", decision)
	}
	if len(repo.logs) != 1 || repo.logs[0].Matched {
		t.Fatalf("expected a non-matched audit log, got %+v", repo.logs)
	}
}

func TestVerifyAuditFailureDoesNotBlockResponse(t *testing.T) {
	repo := &stubRepo{saveErr: errors.New("database down")}
	uc := newTestUseCase(
		&stubRefs{refs: map[string]embedder.Embedding{"users/alice/ref_a.jpg": arcface(1, 0)}},
		&stubLiveExtractor{embedding: arcface(1, 0)},
		repo,
		nil,
	)

	_, decision, err := uc.Verify(context.Background(), "alice", pngImage(t))
	if err != nil {
		t.Fatalf("audit failure must not fail the request: %v", err)
	}
	if !decision.Matched {
		t.Fatalf("expected match, got %+v", decision)
	}
}

func TestRegisterStoresReferenceAndWarmsCache(t *testing.T) {
	store := blobstore.NewMemoryStore()
	refs := &warmTrackingRefs{}
	uc := NewVerificationUseCase(refs, &stubLiveExtractor{}, store, &stubRepo{}, nil, 0.68, zap.NewNop())

	key, err := uc.Register(context.Background(), " Alice ", pngImage(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(key, "users/alice/ref_") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected reference key: %s", key)
	}
	if _, err := store.Get(context.Background(), key); err != nil {
		t.Fatalf("stored reference missing: %v", err)
	}
	if refs.warmCalls != 1 {
		t.Fatalf("expected one cache warm call, got %d", refs.warmCalls)
	}
}

func TestRegisterRejectsInvalidImage(t *testing.T) {
	uc := newTestUseCase(&stubRefs{}, &stubLiveExtractor{}, &stubRepo{}, nil)

	if _, err := uc.Register(context.Background(), "alice", []byte("junk")); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

type warmTrackingRefs struct {
	warmCalls int
}

func (w *warmTrackingRefs) EnsureFresh(ctx context.Context, identity string) (map[string]embedder.Embedding, error) {
	w.warmCalls++
	return map[string]embedder.Embedding{}, nil
}

func TestGetMetricsSummary(t *testing.T) {
	repo := &stubRepo{logs: []*repository.VerificationLog{
		{RequestID: "r1", Identity: "alice", Matched: true},
		{RequestID: "r2", Identity: "alice", Matched: false},
	}}
	uc := newTestUseCase(&stubRefs{}, &stubLiveExtractor{}, repo, nil)

	summary, err := uc.GetMetricsSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalRequests != 2 || summary.MatchedRequests != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.MatchRate != 0.5 {
		t.Fatalf("expected match rate 0.5, got %f", summary.MatchRate)
	}
}
