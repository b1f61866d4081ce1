package extraction

import (
	"image"
	"image/color"
	"image/draw"
)

// BrightnessBoost is added to every grayscale pixel before recognition
const BrightnessBoost = 1

// Preprocessor prepares a cropped region for the recognizer
type Preprocessor struct {
	Name  string
	Apply func(region image.Image) image.Image
}

// DefaultPreprocessors returns the passes tried in order: the raw crop,
// a brightened grayscale, then the same grayscale inverted.
func DefaultPreprocessors() []Preprocessor {
	return []Preprocessor{
		{Name: "raw", Apply: Raw},
		{Name: "grayscale", Apply: Brightened},
		{Name: "inverted", Apply: Inverted},
	}
}

// Raw returns the region unchanged
func Raw(region image.Image) image.Image {
	return region
}

// Brightened converts to grayscale and adds BrightnessBoost
func Brightened(region image.Image) image.Image {
	return grayscale(region, func(y uint8) uint8 {
		return clamp(int(y) + BrightnessBoost)
	})
}

// Inverted is Brightened with every value flipped
func Inverted(region image.Image) image.Image {
	return grayscale(region, func(y uint8) uint8 {
		return 255 - clamp(int(y)+BrightnessBoost)
	})
}

func grayscale(region image.Image, adjust func(uint8) uint8) *image.Gray {
	b := region.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(region.At(x, y)).(color.Gray)
			out.SetGray(x, y, color.Gray{Y: adjust(g.Y)})
		}
	}
	return out
}

// crop copies r out of frame. The result keeps frame coordinates.
func crop(frame image.Image, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(r)
	draw.Draw(out, r, frame, r.Min, draw.Src)
	return out
}

func clamp(v int) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
