package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestValidateReportsFormat(t *testing.T) {
	format, err := Validate(encodePNG(t, 4, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png, got %s", format)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := Validate([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-image bytes")
	}
}

func TestNormalizeKeepsSmallImagesUntouched(t *testing.T) {
	data := encodePNG(t, 8, 8)
	out, err := Normalize(data, 1280)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("in-bounds image must be returned byte-for-byte")
	}
}

func TestNormalizeDownscalesOversizedImages(t *testing.T) {
	data := encodePNG(t, 64, 16)
	out, err := Normalize(data, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode normalized image: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg re-encode, got %s", format)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 32 || bounds.Dy() != 8 {
		t.Fatalf("expected 32x8, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("junk"), 1280); err == nil {
		t.Fatal("expected error for non-image bytes")
	}
}
