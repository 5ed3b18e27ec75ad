package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("BLOB_BUCKET", "faces")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("unexpected listen addr: %s", cfg.ListenAddr)
	}
	if cfg.Model != "ArcFace" {
		t.Errorf("unexpected model: %s", cfg.Model)
	}
	if cfg.Threshold != 0.68 {
		t.Errorf("expected ArcFace default threshold 0.68, got %f", cfg.Threshold)
	}
	if len(cfg.Detectors) != 3 || cfg.Detectors[0] != "retinaface" {
		t.Errorf("unexpected detector chain: %v", cfg.Detectors)
	}
	if !cfg.CacheEnabled {
		t.Error("cache should default to enabled")
	}
	if cfg.ExtractTimeout != 30*time.Second {
		t.Errorf("unexpected extract timeout: %s", cfg.ExtractTimeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BLOB_BUCKET", "faces")
	t.Setenv("EMBEDDING_MODEL", "Facenet")
	t.Setenv("DETECTOR_BACKENDS", " retinaface , opencv ")
	t.Setenv("DISTANCE_THRESHOLD", "0.55")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("EXTRACT_TIMEOUT", "5s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "Facenet" {
		t.Errorf("unexpected model: %s", cfg.Model)
	}
	if len(cfg.Detectors) != 2 || cfg.Detectors[1] != "opencv" {
		t.Errorf("expected trimmed detector list, got %v", cfg.Detectors)
	}
	if cfg.Threshold != 0.55 {
		t.Errorf("unexpected threshold: %f", cfg.Threshold)
	}
	if cfg.CacheEnabled {
		t.Error("expected cache disabled")
	}
	if cfg.ExtractTimeout != 5*time.Second {
		t.Errorf("unexpected extract timeout: %s", cfg.ExtractTimeout)
	}
}

func TestFromEnvRequiresBucket(t *testing.T) {
	t.Setenv("BLOB_DRIVER", "s3")
	t.Setenv("BLOB_BUCKET", "")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error when BLOB_BUCKET is missing")
	}
}

func TestFromEnvMemoryDriverNeedsNoBucket(t *testing.T) {
	t.Setenv("BLOB_DRIVER", "memory")
	t.Setenv("BLOB_BUCKET", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BlobDriver != "memory" {
		t.Fatalf("unexpected driver: %s", cfg.BlobDriver)
	}
}

func TestThresholdFor(t *testing.T) {
	if got := ThresholdFor("ArcFace"); got != 0.68 {
		t.Errorf("ArcFace: got %f", got)
	}
	if got := ThresholdFor("VGG-Face"); got != 0.40 {
		t.Errorf("VGG-Face: got %f", got)
	}
	// Unknown models fall back to the strictest common default.
	if got := ThresholdFor("SomethingElse"); got != 0.40 {
		t.Errorf("unknown model: got %f", got)
	}
}

func TestFromEnvInvalidThreshold(t *testing.T) {
	t.Setenv("BLOB_BUCKET", "faces")
	t.Setenv("DISTANCE_THRESHOLD", "not-a-number")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for malformed threshold")
	}
}
