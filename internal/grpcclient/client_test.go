package grpcclient

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/faceverify/internal/embedder"
	proto "github.com/example/faceverify/proto"
)

type stubEmbedderClient struct {
	resp    *proto.RepresentResponse
	err     error
	lastReq *proto.RepresentRequest
}

func (s *stubEmbedderClient) Represent(ctx context.Context, in *proto.RepresentRequest, opts ...grpc.CallOption) (*proto.RepresentResponse, error) {
	s.lastReq = in
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestBackendExtract(t *testing.T) {
	client := &stubEmbedderClient{resp: &proto.RepresentResponse{
		Embedding: []float32{0.1, 0.2, 0.3},
		Model:     "ArcFace",
		Detector:  "retinaface",
		FaceCount: 1,
	}}
	backend := NewBackend(client, "ArcFace", "retinaface", zap.NewNop())

	emb, err := backend.Extract(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emb.Vector) != 3 || emb.Model != "ArcFace" || emb.Detector != "retinaface" {
		t.Fatalf("unexpected embedding: %+v", emb)
	}
	if client.lastReq.GetModel() != "ArcFace" || client.lastReq.GetDetector() != "retinaface" {
		t.Fatalf("unexpected request: %+v", client.lastReq)
	}
	if !client.lastReq.GetAlign() {
		t.Fatal("expected alignment to be requested")
	}
}

func TestBackendNoFaceStatusCodes(t *testing.T) {
	for _, code := range []codes.Code{codes.NotFound, codes.FailedPrecondition} {
		client := &stubEmbedderClient{err: status.Error(code, "no face found")}
		backend := NewBackend(client, "ArcFace", "retinaface", zap.NewNop())

		_, err := backend.Extract(context.Background(), []byte("img"))
		if !errors.Is(err, embedder.ErrNoFaceDetected) {
			t.Fatalf("code %s: expected ErrNoFaceDetected, got %v", code, err)
		}
	}
}

func TestBackendTransportErrorIsNotNoFace(t *testing.T) {
	client := &stubEmbedderClient{err: status.Error(codes.Unavailable, "connection refused")}
	backend := NewBackend(client, "ArcFace", "retinaface", zap.NewNop())

	_, err := backend.Extract(context.Background(), []byte("img"))
	if err == nil || errors.Is(err, embedder.ErrNoFaceDetected) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestBackendEmptyEmbeddingIsNoFace(t *testing.T) {
	client := &stubEmbedderClient{resp: &proto.RepresentResponse{FaceCount: 0}}
	backend := NewBackend(client, "ArcFace", "retinaface", zap.NewNop())

	_, err := backend.Extract(context.Background(), []byte("img"))
	if !errors.Is(err, embedder.ErrNoFaceDetected) {
		t.Fatalf("expected ErrNoFaceDetected, got %v", err)
	}
}
