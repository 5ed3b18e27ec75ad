package handlers

import (
	"errors"
	"io"
	"math"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/example/faceverify/internal/auth"
	"github.com/example/faceverify/internal/embedder"
	"github.com/example/faceverify/internal/refcache"
	"github.com/example/faceverify/internal/usecase"
)

// MaxUploadSize bounds a single uploaded image.
const MaxUploadSize = 8 << 20

// RegisterRoutes wires the HTTP handlers to the Gin router.
func RegisterRoutes(router *gin.Engine, uc *usecase.VerificationUseCase, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authorized := router.Group("/", authMiddleware)

	authorized.POST("/api/verify", func(c *gin.Context) {
		identity, ok := auth.GetIdentity(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing from token"})
			return
		}

		data, ok := readImageUpload(c)
		if !ok {
			return
		}

		requestID, decision, err := uc.Verify(c.Request.Context(), identity, data)
		if err != nil {
			respondVerifyError(c, requestID, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"request_id":     requestID,
			"verified":       decision.Matched,
			"best_distance":  jsonDistance(decision.BestDistance),
			"best_reference": decision.BestReference,
			"backend":        decision.Backend,
			"diagnostics":    decision.Diagnostics,
		})
	})

	authorized.POST("/api/register", func(c *gin.Context) {
		identity, ok := auth.GetIdentity(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing from token"})
			return
		}

		data, ok := readImageUpload(c)
		if !ok {
			return
		}

		key, err := uc.Register(c.Request.Context(), identity, data)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "image could not be decoded"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store reference image"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"identity":   identity,
			"stored_key": key,
		})
	})

	authorized.GET("/result/:id", func(c *gin.Context) {
		identity, ok := auth.GetIdentity(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing from token"})
			return
		}

		requestID := c.Param("id")
		log, err := uc.GetResult(c.Request.Context(), identity, requestID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"request_id":    log.RequestID,
			"identity":      log.Identity,
			"verified":      log.Matched,
			"best_distance": log.BestDistance,
			"backend":       log.Backend,
			"details":       log.Details,
			"created_at":    log.CreatedAt,
		})
	})

	authorized.GET("/metrics/summary", func(c *gin.Context) {
		summary, err := uc.GetMetricsSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate metrics"})
			return
		}
		c.JSON(http.StatusOK, summary)
	})
}

// readImageUpload extracts and validates the multipart "image" part. On
// failure it writes the error response and returns ok=false.
func readImageUpload(c *gin.Context) ([]byte, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return nil, false
	}

	if file.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
		return nil, false
	}
	if !acceptableContentType(file.Header) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "image uploads only"})
		return nil, false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image"})
		return nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return nil, false
	}
	if len(data) > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
		return nil, false
	}
	return data, true
}

func acceptableContentType(header textproto.MIMEHeader) bool {
	ct := header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		// Decoding validates the actual bytes downstream.
		return true
	}
	return strings.HasPrefix(ct, "image/")
}

func respondVerifyError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, refcache.ErrNotRegistered):
		c.JSON(http.StatusNotFound, gin.H{
			"request_id": requestID,
			"error":      "no reference images registered for this identity",
		})
	case errors.Is(err, embedder.ErrNoFaceDetected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"request_id": requestID,
			"error":      "no face detected in the captured image",
		})
	case errors.Is(err, embedder.ErrBackendUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"request_id": requestID,
			"error":      "face detection is temporarily unavailable",
		})
	case errors.Is(err, usecase.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{
			"request_id": requestID,
			"error":      "image could not be decoded",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"request_id": requestID,
			"error":      "verification failed",
		})
	}
}

// jsonDistance keeps the response JSON-encodable: +Inf means no reference
// was comparable and is reported as -1.
func jsonDistance(d float64) float64 {
	if math.IsInf(d, 1) {
		return -1
	}
	return d
}
