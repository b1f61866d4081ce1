package detection

import (
	"image"
	"image/color"
	"testing"
)

func TestSimilar(t *testing.T) {
	tests := []struct {
		name      string
		a, b      RGB
		tolerance int
		want      bool
	}{
		{name: "identical", a: RGB{10, 20, 30}, b: RGB{10, 20, 30}, tolerance: 0, want: true},
		{name: "exact equality at zero tolerance", a: RGB{10, 20, 30}, b: RGB{10, 20, 31}, tolerance: 0, want: false},
		{name: "on the boundary", a: RGB{239, 203, 14}, b: RGB{219, 223, 34}, tolerance: 20, want: true},
		{name: "one channel over", a: RGB{239, 203, 14}, b: RGB{239, 203, 35}, tolerance: 20, want: false},
		{name: "near black at wide tolerance", a: RGB{120, 80, 150}, b: Black, tolerance: 200, want: true},
		{name: "white against black", a: White, b: Black, tolerance: 200, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(tt.a, tt.b, tt.tolerance); got != tt.want {
				t.Errorf("Similar(%v, %v, %d) = %v, want %v", tt.a, tt.b, tt.tolerance, got, tt.want)
			}
			if got := Similar(tt.b, tt.a, tt.tolerance); got != tt.want {
				t.Errorf("Similar is not symmetric for %v and %v", tt.a, tt.b)
			}
		})
	}
}

func TestSample(t *testing.T) {
	t.Run("rgba image", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.SetRGBA(2, 3, color.RGBA{R: 231, G: 123, B: 9, A: 255})

		got, ok := Sample(img, 2, 3)
		if !ok || got != (RGB{231, 123, 9}) {
			t.Errorf("Sample = %v (ok=%v), want {231 123 9}", got, ok)
		}
	})

	t.Run("other image types", func(t *testing.T) {
		img := image.NewGray(image.Rect(0, 0, 2, 2))
		img.SetGray(1, 1, color.Gray{Y: 200})

		got, ok := Sample(img, 1, 1)
		if !ok || got != (RGB{200, 200, 200}) {
			t.Errorf("Sample = %v (ok=%v), want {200 200 200}", got, ok)
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		if _, ok := Sample(img, 4, 0); ok {
			t.Error("expected out of bounds sample to fail")
		}
		if _, ok := Sample(img, -1, 0); ok {
			t.Error("expected negative sample to fail")
		}
	})
}
