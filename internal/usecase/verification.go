package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/faceverify/internal/blobstore"
	"github.com/example/faceverify/internal/embedder"
	"github.com/example/faceverify/internal/imaging"
	"github.com/example/faceverify/internal/logging"
	"github.com/example/faceverify/internal/matcher"
	"github.com/example/faceverify/internal/refcache"
	"github.com/example/faceverify/internal/repository"
)

// ErrInvalidImage means the uploaded bytes are not a decodable image.
var ErrInvalidImage = errors.New("uploaded data is not a valid image")

// ReferenceProvider yields the fresh reference embeddings for an identity.
type ReferenceProvider interface {
	EnsureFresh(ctx context.Context, identity string) (map[string]embedder.Embedding, error)
}

// LiveExtractor extracts the embedding from the captured live image.
type LiveExtractor interface {
	Extract(ctx context.Context, image []byte) (embedder.Embedding, error)
}

// AuditRepository defines the persistence operations needed by the use case.
type AuditRepository interface {
	SaveLog(ctx context.Context, log *repository.VerificationLog) error
	FindByRequestIDAndIdentity(ctx context.Context, requestID, identity string) (*repository.VerificationLog, error)
	AggregateMetrics(ctx context.Context) (*repository.MetricsAggregation, error)
}

// Cache abstracts the Redis operations used for result lookups.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

// VerificationUseCase orchestrates one verification request: resolve the
// identity's reference embeddings, extract the live embedding, match, audit.
// It is the only entry point the transport layer calls.
type VerificationUseCase struct {
	refs      ReferenceProvider
	extractor LiveExtractor
	store     blobstore.Store
	repo      AuditRepository
	cache     Cache
	logger    *zap.Logger
	threshold float64
	maxDim    int
}

// NewVerificationUseCase constructs a new use case instance. cache may be nil.
func NewVerificationUseCase(
	refs ReferenceProvider,
	extractor LiveExtractor,
	store blobstore.Store,
	repo AuditRepository,
	cache Cache,
	threshold float64,
	logger *zap.Logger,
) *VerificationUseCase {
	return &VerificationUseCase{
		refs:      refs,
		extractor: extractor,
		store:     store,
		repo:      repo,
		cache:     cache,
		logger:    logger.Named("verification_usecase"),
		threshold: threshold,
		maxDim:    imaging.DefaultMaxDimension,
	}
}

type cachedVerification struct {
	RequestID    string    `json:"request_id"`
	Identity     string    `json:"identity"`
	Matched      bool      `json:"matched"`
	BestDistance float64   `json:"best_distance"`
	Backend      string    `json:"backend"`
	Details      string    `json:"details"`
	Hash         string    `json:"sha1_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Verify runs the full verification sequence for one request and returns the
// request ID and the match decision. Terminal failures are ErrNotRegistered,
// ErrNoFaceDetected, ErrBackendUnavailable and ErrInvalidImage; a
// non-matching face is a normal decision, not an error.
func (uc *VerificationUseCase) Verify(ctx context.Context, identity string, imageBytes []byte) (string, *matcher.Decision, error) {
	identity = refcache.NormalizeIdentity(identity)
	requestID := uuid.NewString()
	opLogger := logging.WithIdentity(logging.WithOperation(uc.logger, "usecase.verify", requestID), identity)
	start := time.Now()

	refs, err := uc.refs.EnsureFresh(ctx, identity)
	if err != nil {
		if errors.Is(err, refcache.ErrNotRegistered) {
			opLogger.Info("identity not registered")
			return requestID, nil, err
		}
		wrapped := logging.NewOperationError("usecase.ensure_fresh", requestID, err)
		opLogger.Error("failed to load reference embeddings", zap.Error(wrapped))
		return requestID, nil, wrapped
	}

	normalized, err := imaging.Normalize(imageBytes, uc.maxDim)
	if err != nil {
		opLogger.Warn("rejecting undecodable live image", zap.Error(err))
		return requestID, nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	live, err := uc.extractor.Extract(ctx, normalized)
	if err != nil {
		if errors.Is(err, embedder.ErrNoFaceDetected) || errors.Is(err, embedder.ErrBackendUnavailable) {
			opLogger.Info("live extraction exhausted", zap.Error(err))
			return requestID, nil, err
		}
		wrapped := logging.NewOperationError("usecase.extract_live", requestID, err)
		opLogger.Error("live extraction failed", zap.Error(wrapped))
		return requestID, nil, wrapped
	}

	decision := matcher.Match(live, refs, uc.threshold)
	opLogger.Info("verification decided",
		zap.Bool("matched", decision.Matched),
		zap.Float64("best_distance", decision.BestDistance),
		zap.String("backend", decision.Backend),
		zap.Int("references", len(refs)))

	uc.audit(ctx, opLogger, requestID, identity, imageBytes, &decision, time.Since(start))

	return requestID, &decision, nil
}

// audit persists the verification log and result cache entry; failures here
// are logged and never block the response.
func (uc *VerificationUseCase) audit(ctx context.Context, opLogger *zap.Logger, requestID, identity string, imageBytes []byte, decision *matcher.Decision, elapsed time.Duration) {
	hash := sha1.Sum(imageBytes)
	hashHex := hex.EncodeToString(hash[:])

	best := decision.BestDistance
	if math.IsInf(best, 1) {
		// SQL float columns reject +Inf; -1 marks "nothing comparable".
		best = -1
	}

	log := &repository.VerificationLog{
		RequestID:    requestID,
		Identity:     identity,
		Matched:      decision.Matched,
		BestDistance: best,
		Backend:      decision.Backend,
		Details:      fmt.Sprintf("matched:%t best_distance:%f backend:%s hash:%s", decision.Matched, best, decision.Backend, hashHex),
		SHA1Hash:     hashHex,
		ProcessingMs: float64(elapsed.Milliseconds()),
		CreatedAt:    time.Now().UTC(),
	}
	if uc.repo != nil {
		if err := uc.repo.SaveLog(ctx, log); err != nil {
			opLogger.Error("failed to persist verification log", zap.Error(err))
		}
	}

	if uc.cache == nil {
		return
	}
	cached := cachedVerification{
		RequestID:    requestID,
		Identity:     identity,
		Matched:      decision.Matched,
		BestDistance: best,
		Backend:      decision.Backend,
		Details:      log.Details,
		Hash:         hashHex,
		CreatedAt:    log.CreatedAt,
	}
	serialized, err := json.Marshal(cached)
	if err != nil {
		opLogger.Warn("failed to serialize verification result", zap.Error(err))
		return
	}
	if err := uc.cache.Set(ctx, resultKey(requestID), string(serialized), 5*time.Minute); err != nil {
		opLogger.Warn("failed to cache verification result", zap.Error(err))
	}
}

// Register stores one reference image for the identity and warms the
// embedding cache so the first verification is fast.
func (uc *VerificationUseCase) Register(ctx context.Context, identity string, imageBytes []byte) (string, error) {
	identity = refcache.NormalizeIdentity(identity)
	requestID := uuid.NewString()
	opLogger := logging.WithIdentity(logging.WithOperation(uc.logger, "usecase.register", requestID), identity)

	format, err := imaging.Validate(imageBytes)
	if err != nil {
		opLogger.Warn("rejecting undecodable reference image", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	key := refcache.IdentityPrefix(identity) + fmt.Sprintf("ref_%s.%s", name, extensionFor(format))
	if err := uc.store.Put(ctx, key, imageBytes, "image/"+format); err != nil {
		wrapped := logging.NewOperationError("usecase.store_reference", requestID, err)
		opLogger.Error("failed to store reference image", zap.Error(wrapped))
		return "", wrapped
	}
	opLogger.Info("reference image stored", zap.String("key", key))

	// Precompute embeddings now so the next verification hits the cache.
	if _, err := uc.refs.EnsureFresh(ctx, identity); err != nil {
		opLogger.Warn("failed to warm embedding cache", zap.Error(err))
	}

	return key, nil
}

// GetResult retrieves a cached verification outcome or loads from persistence.
func (uc *VerificationUseCase) GetResult(ctx context.Context, identity, requestID string) (*repository.VerificationLog, error) {
	identity = refcache.NormalizeIdentity(identity)

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, resultKey(requestID)); err == nil {
			var payload cachedVerification
			if err := json.Unmarshal([]byte(raw), &payload); err != nil {
				logging.WithOperation(uc.logger, "usecase.get_result", requestID).Warn("failed to decode cached result", zap.Error(err))
			} else if payload.Identity == identity {
				return &repository.VerificationLog{
					RequestID:    payload.RequestID,
					Identity:     payload.Identity,
					Matched:      payload.Matched,
					BestDistance: payload.BestDistance,
					Backend:      payload.Backend,
					Details:      payload.Details,
					SHA1Hash:     payload.Hash,
					CreatedAt:    payload.CreatedAt,
				}, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logging.WithOperation(uc.logger, "usecase.get_result", requestID).Warn("failed to read result cache", zap.Error(err))
		}
	}

	return uc.repo.FindByRequestIDAndIdentity(ctx, requestID, identity)
}

func resultKey(requestID string) string {
	return fmt.Sprintf("verification:%s", requestID)
}

func extensionFor(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
