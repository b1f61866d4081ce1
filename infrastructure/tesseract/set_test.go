package tesseract

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func filled(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestUpscale(t *testing.T) {
	tests := []struct {
		name       string
		bounds     image.Rectangle
		wantWidth  int
		wantHeight int
	}{
		{"clock region is enlarged", image.Rect(935, 0, 985, 28), 85, 48},
		{"score region is enlarged", image.Rect(530, 89, 620, 127), 113, 48},
		{"tall region is untouched", image.Rect(0, 0, 120, 80), 120, 80},
		{"exact height is untouched", image.Rect(0, 0, 40, 48), 40, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Upscale(filled(tt.bounds, color.White), MinHeight)
			b := out.Bounds()
			if b.Dx() != tt.wantWidth || b.Dy() != tt.wantHeight {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantWidth, tt.wantHeight, b.Dx(), b.Dy())
			}
		})
	}
}

func TestUpscale_KeepsColor(t *testing.T) {
	out := Upscale(filled(image.Rect(10, 10, 30, 20), color.RGBA{R: 200, A: 255}), MinHeight)

	r, g, b, _ := out.At(out.Bounds().Dx()/2, out.Bounds().Dy()/2).RGBA()
	if r>>8 < 190 || g>>8 > 10 || b>>8 > 10 {
		t.Errorf("expected red to survive scaling, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(filled(image.Rect(0, 0, 60, 20), color.Black))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected valid PNG: %v", err)
	}
	if decoded.Bounds().Dy() != MinHeight {
		t.Errorf("expected encoded height %d, got %d", MinHeight, decoded.Bounds().Dy())
	}
}
