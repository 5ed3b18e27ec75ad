package embedder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPBackendExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/represent" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "ArcFace" {
			t.Errorf("expected model ArcFace, got %q", got)
		}
		if got := r.FormValue("detector"); got != "opencv" {
			t.Errorf("expected detector opencv, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embedding": []float32{0.1, 0.2},
			"dim":       2,
			"model":     "ArcFace",
		})
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, "ArcFace", "opencv")
	emb, err := backend.Extract(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emb.Vector) != 2 || emb.Model != "ArcFace" || emb.Detector != "opencv" {
		t.Fatalf("unexpected embedding: %+v", emb)
	}
}

func TestHTTPBackendNoFace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"no face detected"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, "ArcFace", "opencv")
	if _, err := backend.Extract(context.Background(), []byte("img")); !errors.Is(err, ErrNoFaceDetected) {
		t.Fatalf("expected ErrNoFaceDetected, got %v", err)
	}
}

func TestHTTPBackendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model warming up", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, "ArcFace", "opencv")
	_, err := backend.Extract(context.Background(), []byte("img"))
	if err == nil || errors.Is(err, ErrNoFaceDetected) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
