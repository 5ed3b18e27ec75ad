package refcache

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/faceverify/internal/blobstore"
	"github.com/example/faceverify/internal/embedder"
)

// ErrNotRegistered means the identity has no reference images at all.
var ErrNotRegistered = errors.New("identity has no reference images")

const (
	usersPrefix = "users/"
	hotCacheTTL = 10 * time.Minute
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".webp": {},
}

// NormalizeIdentity canonicalizes an identity key the way reference images
// are stored under it.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// IdentityPrefix is the blob store prefix holding an identity's reference
// images and cache artifact.
func IdentityPrefix(identity string) string {
	return usersPrefix + identity + "/"
}

// Extractor is the part of the embedding extractor the cache needs to fill
// gaps during recomputation.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (embedder.Embedding, error)
}

// Options tune the cache behaviour.
type Options struct {
	// Model scopes cached embeddings; an artifact computed by a different
	// model is stale by definition.
	Model string
	// ArtifactName is the artifact's file name inside the identity prefix.
	ArtifactName string
	// Enabled toggles artifact reuse. When false every call recomputes.
	Enabled bool
	// Parallelism bounds concurrent extraction during recomputation.
	Parallelism int
}

// ReferenceCache owns the per-identity reference embedding cache. The blob
// store is the authority; Redis is a best-effort hot layer above it.
// Concurrent recomputations for the same identity race benignly: extraction
// is deterministic and the artifact write is last-write-wins, so a lost
// write is detected as staleness on the next read.
type ReferenceCache struct {
	store     blobstore.Store
	extractor Extractor
	hot       Cache
	opts      Options
	logger    *zap.Logger

	retryAttempts  int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// New constructs a ReferenceCache. hot may be nil when no Redis is deployed.
func New(store blobstore.Store, extractor Extractor, hot Cache, opts Options, logger *zap.Logger) *ReferenceCache {
	if opts.ArtifactName == "" {
		opts.ArtifactName = ".face_embeddings.json.gz"
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 2
	}
	return &ReferenceCache{
		store:          store,
		extractor:      extractor,
		hot:            hot,
		opts:           opts,
		logger:         logger.Named("refcache"),
		retryAttempts:  3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
}

// ArtifactKey is the blob store key of an identity's cache artifact.
func (rc *ReferenceCache) ArtifactKey(identity string) string {
	return IdentityPrefix(identity) + rc.opts.ArtifactName
}

// EnsureFresh returns the up-to-date reference embedding map for identity.
// It fails with ErrNotRegistered when the identity has no reference images.
// A non-empty reference set whose every image is unreadable or faceless
// yields an empty map, not an error.
func (rc *ReferenceCache) EnsureFresh(ctx context.Context, identity string) (map[string]embedder.Embedding, error) {
	refs, err := rc.listReferences(ctx, identity)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, ErrNotRegistered
	}

	aggregate := AggregateFingerprint(refs)

	if rc.opts.Enabled {
		if artifact := rc.loadArtifact(ctx, identity); artifact != nil &&
			artifact.Model == rc.opts.Model &&
			artifact.AggregateFingerprint == aggregate {
			return artifact.Embeddings(), nil
		}
	}

	entries, complete := rc.recompute(ctx, refs)

	embeddings := make(map[string]embedder.Embedding, len(entries))
	for key, entry := range entries {
		embeddings[key] = entry.Embedding
	}

	if rc.opts.Enabled && complete {
		artifact := &Artifact{
			Model:                rc.opts.Model,
			AggregateFingerprint: aggregate,
			ComputedAt:           time.Now().UTC(),
			Entries:              entries,
		}
		// Persistence failure is never fatal: the freshly computed map
		// still serves this request and a later write supersedes the
		// stale artifact.
		rc.persistArtifact(ctx, identity, artifact)
	}

	return embeddings, nil
}

// listReferences lists the identity's current reference images with their
// content fingerprints, skipping the cache artifact and non-image objects.
func (rc *ReferenceCache) listReferences(ctx context.Context, identity string) ([]blobstore.ObjectInfo, error) {
	objects, err := rc.store.List(ctx, IdentityPrefix(identity))
	if err != nil {
		return nil, err
	}

	refs := objects[:0]
	for _, obj := range objects {
		name := path.Base(obj.Key)
		if name == rc.opts.ArtifactName {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(path.Ext(name))]; !ok {
			continue
		}
		refs = append(refs, obj)
	}
	return refs, nil
}

// recompute extracts embeddings for every reference, in parallel up to the
// configured bound. References that cannot be downloaded or contain no
// detectable face are skipped; they must not block verification against the
// remaining references. complete reports whether every skip was a definitive
// "no face": availability-caused skips (unreadable blob, backends down) make
// the result incomplete, and an incomplete result must not be persisted or
// the affected references would stay excluded until the set next changes.
func (rc *ReferenceCache) recompute(ctx context.Context, refs []blobstore.ObjectInfo) (map[string]ArtifactEntry, bool) {
	var mu sync.Mutex
	entries := make(map[string]ArtifactEntry, len(refs))
	complete := true

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rc.opts.Parallelism)

	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			data, err := rc.store.Get(gctx, ref.Key)
			if err != nil {
				rc.logger.Warn("skipping unreadable reference",
					zap.String("key", ref.Key), zap.Error(err))
				mu.Lock()
				complete = false
				mu.Unlock()
				return nil
			}

			emb, err := rc.extractor.Extract(gctx, data)
			if err != nil {
				rc.logger.Warn("skipping reference without usable face",
					zap.String("key", ref.Key), zap.Error(err))
				if !errors.Is(err, embedder.ErrNoFaceDetected) {
					mu.Lock()
					complete = false
					mu.Unlock()
				}
				return nil
			}

			mu.Lock()
			entries[ref.Key] = ArtifactEntry{Fingerprint: ref.Fingerprint, Embedding: emb}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return entries, complete
}

func (rc *ReferenceCache) loadArtifact(ctx context.Context, identity string) *Artifact {
	if rc.hot != nil {
		if raw, err := rc.hotGet(ctx, hotKey(identity)); err == nil && raw != "" {
			if artifact, err := decodeArtifact([]byte(raw)); err == nil {
				return artifact
			}
			rc.logger.Warn("discarding undecodable hot cache entry",
				zap.String("identity", identity))
		}
	}

	data, err := rc.store.Get(ctx, rc.ArtifactKey(identity))
	if err != nil {
		if !errors.Is(err, blobstore.ErrNotFound) {
			rc.logger.Warn("failed to load cache artifact",
				zap.String("identity", identity), zap.Error(err))
		}
		return nil
	}

	artifact, err := decodeArtifact(data)
	if err != nil {
		rc.logger.Warn("discarding corrupt cache artifact",
			zap.String("identity", identity), zap.Error(err))
		return nil
	}

	if rc.hot != nil {
		if err := rc.hotSet(ctx, hotKey(identity), string(data)); err != nil {
			rc.logger.Warn("failed to warm hot cache",
				zap.String("identity", identity), zap.Error(err))
		}
	}
	return artifact
}

func (rc *ReferenceCache) persistArtifact(ctx context.Context, identity string, artifact *Artifact) {
	data, err := encodeArtifact(artifact)
	if err != nil {
		rc.logger.Warn("failed to encode cache artifact",
			zap.String("identity", identity), zap.Error(err))
		return
	}

	if err := rc.store.Put(ctx, rc.ArtifactKey(identity), data, "application/gzip"); err != nil {
		rc.logger.Warn("failed to persist cache artifact",
			zap.String("identity", identity), zap.Error(err))
	}

	if rc.hot != nil {
		if err := rc.hotSet(ctx, hotKey(identity), string(data)); err != nil {
			rc.logger.Warn("failed to update hot cache",
				zap.String("identity", identity), zap.Error(err))
		}
	}
}

func hotKey(identity string) string {
	return "refcache:" + identity
}

func (rc *ReferenceCache) hotGet(ctx context.Context, key string) (string, error) {
	var value string
	err := rc.withRetry(ctx, func() error {
		v, err := rc.hot.Get(ctx, key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

func (rc *ReferenceCache) hotSet(ctx context.Context, key, value string) error {
	return rc.withRetry(ctx, func() error {
		return rc.hot.Set(ctx, key, value, hotCacheTTL)
	})
}

func (rc *ReferenceCache) withRetry(ctx context.Context, fn func() error) error {
	backoff := rc.initialBackoff
	var err error
	for attempt := 0; attempt < rc.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if next := backoff * 2; next <= rc.maxBackoff {
				backoff = next
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.Nil) || !isTransientError(err) {
			return err
		}
	}
	return err
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) && temporary.Temporary() {
		return true
	}

	return false
}
