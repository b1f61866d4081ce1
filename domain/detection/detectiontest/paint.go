// Package detectiontest paints synthetic frames for detector tests.
package detectiontest

import (
	"image"
	"image/color"

	"ebp-replay-analyzer/domain/detection"
)

// Background is a neutral grey that matches no probe of the default layout
var Background = color.RGBA{R: 90, G: 90, B: 90, A: 255}

// NewFrame returns a blank frame of the layout resolution
func NewFrame(layout detection.Layout) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = Background.R
		img.Pix[i+1] = Background.G
		img.Pix[i+2] = Background.B
		img.Pix[i+3] = Background.A
	}
	return img
}

// Paint sets every probe of one cluster to its first accepted color
func Paint(img *image.RGBA, p detection.Pattern, cluster int) {
	for _, pr := range p.Clusters[cluster].Probes {
		img.SetRGBA(pr.X, pr.Y, pr.Accept[0].Color.Color())
	}
}

// PaintWith sets every probe of one cluster to the reference at index ref
func PaintWith(img *image.RGBA, p detection.Pattern, cluster, ref int) {
	for _, pr := range p.Clusters[cluster].Probes {
		img.SetRGBA(pr.X, pr.Y, pr.Accept[ref].Color.Color())
	}
}

// Frame returns a new frame showing the pattern
func Frame(layout detection.Layout, p detection.Pattern) *image.RGBA {
	img := NewFrame(layout)
	Paint(img, p, 0)
	return img
}
