package detection

import (
	"image"
	"image/color"
)

// DefaultTolerance is the per-channel difference accepted by most probes
const DefaultTolerance = 20

// RGB is an 8-bit color
type RGB struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

var (
	White = RGB{R: 255, G: 255, B: 255}
	Black = RGB{R: 0, G: 0, B: 0}
)

// Similar reports whether every channel of a and b differs by at most tolerance
func Similar(a, b RGB, tolerance int) bool {
	return abs(a.R-b.R) <= tolerance &&
		abs(a.G-b.G) <= tolerance &&
		abs(a.B-b.B) <= tolerance
}

// Sample returns the color of the pixel at (x, y).
// The second result is false when the point is outside the image.
func Sample(img image.Image, x, y int) (RGB, bool) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return RGB{}, false
	}
	if rgba, ok := img.(*image.RGBA); ok {
		c := rgba.RGBAAt(x, y)
		return RGB{R: int(c.R), G: int(c.G), B: int(c.B)}, true
	}
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	return RGB{R: int(c.R), G: int(c.G), B: int(c.B)}, true
}

// Color converts to a fully opaque color.RGBA
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
