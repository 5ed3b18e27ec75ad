package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// HTTPBackend talks to a lightweight embedding server over HTTP. It is the
// safety-net entry of the fallback chain: less accurate on off-angle faces
// than the primary inference service, but cheap and always resident.
type HTTPBackend struct {
	name    string
	baseURL string
	model   string
	client  *http.Client
}

// NewHTTPBackend builds a backend posting to baseURL. name is the detector
// identifier the server should use (and the backend's name in the chain).
func NewHTTPBackend(baseURL, model, name string) *HTTPBackend {
	return &HTTPBackend{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

// Name returns the detector identifier.
func (b *HTTPBackend) Name() string { return b.name }

type representResponse struct {
	Embedding []float32 `json:"embedding"`
	Dim       int       `json:"dim"`
	Model     string    `json:"model"`
}

// Extract posts the image as multipart form data and decodes the embedding.
func (b *HTTPBackend) Extract(ctx context.Context, image []byte) (Embedding, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "image.jpg")
	if err != nil {
		return Embedding{}, fmt.Errorf("embedding server: build request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return Embedding{}, fmt.Errorf("embedding server: build request: %w", err)
	}
	_ = writer.WriteField("model", b.model)
	_ = writer.WriteField("detector", b.name)
	if err := writer.Close(); err != nil {
		return Embedding{}, fmt.Errorf("embedding server: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/represent", body)
	if err != nil {
		return Embedding{}, fmt.Errorf("embedding server: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return Embedding{}, fmt.Errorf("embedding server: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		// The server ran detection and found no face.
		return Embedding{}, ErrNoFaceDetected
	case resp.StatusCode != http.StatusOK:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Embedding{}, fmt.Errorf("embedding server: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded representResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Embedding{}, fmt.Errorf("embedding server: decode response: %w", err)
	}
	if len(decoded.Embedding) == 0 {
		return Embedding{}, ErrNoFaceDetected
	}

	model := decoded.Model
	if model == "" {
		model = b.model
	}
	return Embedding{Vector: decoded.Embedding, Model: model, Detector: b.name}, nil
}
