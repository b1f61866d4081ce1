package detection

import (
	"image"

	"ebp-replay-analyzer/domain/game"
)

// Screen is the state recognized on a frame
type Screen string

const (
	// ScreenNone means no legal transition was recognized
	ScreenNone Screen = "none"

	// ScreenEnd is the post-match score screen
	ScreenEnd Screen = "end"

	// ScreenLoading is the map loader shown before a match
	ScreenLoading Screen = "loading"

	// ScreenIntro is the map introduction shown before a match
	ScreenIntro Screen = "intro"

	// ScreenInMatch is live gameplay
	ScreenInMatch Screen = "in_match"
)

// Detector classifies frames against a layout
type Detector struct {
	layout Layout
}

// NewDetector creates a detector for a layout
func NewDetector(layout Layout) *Detector {
	return &Detector{layout: layout}
}

// Layout returns the layout used by the detector
func (d *Detector) Layout() Layout {
	return d.layout
}

// Classify returns the first screen, in priority order, whose transition is
// legal for the ledger and whose pattern matches the frame.
func (d *Detector) Classify(frame image.Image, ledger *game.Ledger) Screen {
	b := frame.Bounds()
	if b.Dx() < d.layout.Width || b.Dy() < d.layout.Height {
		return ScreenNone
	}

	switch {
	case d.IsEndScreen(frame, ledger):
		return ScreenEnd
	case d.IsLoadingScreen(frame, ledger):
		return ScreenLoading
	case d.IsIntroScreen(frame, ledger):
		return ScreenIntro
	case d.IsInMatch(frame, ledger):
		return ScreenInMatch
	}
	return ScreenNone
}

// IsEndScreen fires only when no game is open
func (d *Detector) IsEndScreen(frame image.Image, ledger *game.Ledger) bool {
	return ledger.CanOpen() && d.layout.EndScreen.Matches(frame)
}

// IsLoadingScreen fires only while the front game awaits its start
func (d *Detector) IsLoadingScreen(frame image.Image, ledger *game.Ledger) bool {
	return awaitingStart(ledger) && d.layout.LoadingScreen.Matches(frame)
}

// IsIntroScreen fires only while the front game awaits its start
func (d *Detector) IsIntroScreen(frame image.Image, ledger *game.Ledger) bool {
	return awaitingStart(ledger) && d.layout.IntroScreen.Matches(frame)
}

// IsInMatch fires only while the front game awaits its start
func (d *Detector) IsInMatch(frame image.Image, ledger *game.Ledger) bool {
	return awaitingStart(ledger) && d.layout.InMatch.Matches(frame)
}

// awaitingStart reports whether the front game has its end but no start.
// Games are only created from an end screen, so an open game always has one.
func awaitingStart(ledger *game.Ledger) bool {
	front := ledger.Front()
	return front != nil && front.IsOpen()
}
