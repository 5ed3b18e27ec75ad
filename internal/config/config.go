package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default verification thresholds per embedding model. The cosine distance at
// or below which two faces count as the same person depends on the model that
// produced the embeddings.
var defaultThresholds = map[string]float64{
	"ArcFace":  0.68,
	"Facenet":  0.40,
	"VGG-Face": 0.40,
}

// Config carries every runtime option the service recognizes. It is built
// once at startup and never mutated afterwards.
type Config struct {
	ListenAddr  string
	DatabaseDSN string
	RedisAddr   string

	// Blob store settings. Driver is one of "s3", "minio" or "memory".
	BlobDriver     string
	BucketName     string
	S3Region       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	// Embedding model and the ordered detector fallback chain.
	Model     string
	Detectors []string

	// Inference endpoints: the primary gRPC service and an optional
	// lightweight HTTP embedding server acting as the safety net.
	EmbedderAddr        string
	FallbackEmbedderURL string
	FallbackDetector    string

	// Reference embedding cache behaviour.
	CacheEnabled       bool
	CacheArtifactName  string
	ExtractTimeout     time.Duration
	ExtractParallelism int

	Threshold float64

	JWTSecret   string
	JWTAudience string
}

// FromEnv assembles the configuration from environment variables, applying
// the same defaults the service ships with in docker-compose.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=postgres user=postgres password=postgres dbname=faceverify port=5432 sslmode=disable"),
		RedisAddr:   getEnv("REDIS_ADDR", "redis:6379"),

		BlobDriver:     strings.ToLower(getEnv("BLOB_DRIVER", "s3")),
		BucketName:     os.Getenv("BLOB_BUCKET"),
		S3Region:       getEnv("AWS_REGION", "us-east-1"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),

		Model:     getEnv("EMBEDDING_MODEL", "ArcFace"),
		Detectors: splitList(getEnv("DETECTOR_BACKENDS", "retinaface,mtcnn,opencv")),

		EmbedderAddr:        getEnv("EMBEDDER_ADDR", "embedder:50051"),
		FallbackEmbedderURL: os.Getenv("FALLBACK_EMBEDDER_URL"),
		FallbackDetector:    getEnv("FALLBACK_DETECTOR", "opencv"),

		CacheArtifactName: getEnv("CACHE_ARTIFACT_NAME", ".face_embeddings.json.gz"),

		JWTSecret:   getEnv("JWT_SECRET", "dev-secret"),
		JWTAudience: os.Getenv("JWT_AUDIENCE"),
	}

	var err error
	if cfg.CacheEnabled, err = getBool("CACHE_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.MinioUseSSL, err = getBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}
	if cfg.ExtractTimeout, err = getDuration("EXTRACT_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ExtractParallelism, err = getInt("EXTRACT_PARALLELISM", 2); err != nil {
		return nil, err
	}
	if cfg.Threshold, err = getFloat("DISTANCE_THRESHOLD", ThresholdFor(cfg.Model)); err != nil {
		return nil, err
	}

	if cfg.BucketName == "" && cfg.BlobDriver != "memory" {
		return nil, fmt.Errorf("BLOB_BUCKET is required for blob driver %q", cfg.BlobDriver)
	}
	if len(cfg.Detectors) == 0 {
		return nil, fmt.Errorf("DETECTOR_BACKENDS must name at least one detector")
	}

	return cfg, nil
}

// ThresholdFor returns the default distance threshold for a model, falling
// back to the Facenet default for unknown models.
func ThresholdFor(model string) float64 {
	if t, ok := defaultThresholds[model]; ok {
		return t
	}
	return defaultThresholds["Facenet"]
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
