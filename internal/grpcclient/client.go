package grpcclient

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/example/faceverify/internal/embedder"
	"github.com/example/faceverify/internal/logging"
	proto "github.com/example/faceverify/proto"
)

// DialEmbedder connects to the face embedding inference service.
func DialEmbedder(ctx context.Context, addr string, logger *zap.Logger) (proto.FaceEmbedderClient, *grpc.ClientConn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.dial_embedder", "", err)
		logger.Error("failed to dial embedder", zap.Error(wrapped), zap.String("addr", addr))
		return nil, nil, wrapped
	}
	return proto.NewFaceEmbedderClient(conn), conn, nil
}

// NewBackend wraps the inference service as one detector entry in the
// extractor's fallback chain. Several backends can share a client, each
// naming a different detector.
func NewBackend(client proto.FaceEmbedderClient, model, detector string, logger *zap.Logger) embedder.Backend {
	return &grpcBackend{
		client:   client,
		model:    model,
		detector: detector,
		logger:   logger.Named("grpc_backend"),
	}
}

type grpcBackend struct {
	client   proto.FaceEmbedderClient
	model    string
	detector string
	logger   *zap.Logger
}

func (g *grpcBackend) Name() string { return g.detector }

func (g *grpcBackend) Extract(ctx context.Context, image []byte) (embedder.Embedding, error) {
	resp, err := g.client.Represent(ctx, &proto.RepresentRequest{
		Model:     g.model,
		Detector:  g.detector,
		ImageData: image,
		Align:     true,
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound, codes.FailedPrecondition:
			// The service ran detection and found no face.
			return embedder.Embedding{}, embedder.ErrNoFaceDetected
		}
		wrapped := logging.NewOperationError("grpcclient.represent", "", err)
		g.logger.Error("represent call failed", zap.Error(wrapped), zap.String("detector", g.detector))
		return embedder.Embedding{}, wrapped
	}
	if len(resp.GetEmbedding()) == 0 {
		return embedder.Embedding{}, embedder.ErrNoFaceDetected
	}

	model := resp.GetModel()
	if model == "" {
		model = g.model
	}
	return embedder.Embedding{
		Vector:   resp.GetEmbedding(),
		Model:    model,
		Detector: g.detector,
	}, nil
}
