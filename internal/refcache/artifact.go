package refcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/example/faceverify/internal/blobstore"
	"github.com/example/faceverify/internal/embedder"
)

// ArtifactEntry holds one reference's embedding and the fingerprint its
// source image had when the embedding was computed.
type ArtifactEntry struct {
	Fingerprint string             `json:"fingerprint"`
	Embedding   embedder.Embedding `json:"embedding"`
}

// Artifact is the persisted reference embedding cache for one identity:
// a single read-modify-write object, one per identity, stored next to the
// identity's reference images.
type Artifact struct {
	Model                string                   `json:"model"`
	AggregateFingerprint string                   `json:"aggregate_fingerprint"`
	ComputedAt           time.Time                `json:"computed_at"`
	Entries              map[string]ArtifactEntry `json:"entries"`
}

// Embeddings returns the reference key to embedding map the matcher consumes.
func (a *Artifact) Embeddings() map[string]embedder.Embedding {
	out := make(map[string]embedder.Embedding, len(a.Entries))
	for key, entry := range a.Entries {
		out[key] = entry.Embedding
	}
	return out
}

// AggregateFingerprint summarizes a reference set as a single value: the
// SHA-256 of the sorted (key, fingerprint) pairs. Adding, removing or
// modifying any single reference changes the result.
func AggregateFingerprint(refs []blobstore.ObjectInfo) string {
	sorted := make([]blobstore.ObjectInfo, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	h := sha256.New()
	for _, ref := range sorted {
		h.Write([]byte(ref.Key))
		h.Write([]byte{0})
		h.Write([]byte(ref.Fingerprint))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// encodeArtifact serializes an artifact as gzip-compressed JSON.
func encodeArtifact(artifact *Artifact) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := gzip.NewWriter(buf)
	if err := json.NewEncoder(zw).Encode(artifact); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeArtifact is the inverse of encodeArtifact.
func decodeArtifact(data []byte) (*Artifact, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	defer zr.Close()

	var artifact Artifact
	if err := json.NewDecoder(zr).Decode(&artifact); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &artifact, nil
}
