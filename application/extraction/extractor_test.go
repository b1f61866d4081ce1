package extraction

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"ebp-replay-analyzer/domain/text"
)

// mockRecognizer returns scripted answers and records what it was shown
type mockRecognizer struct {
	answers []string
	err     error
	images  []image.Image
	modes   []text.SegmentationMode
}

func (m *mockRecognizer) Recognize(img image.Image, mode text.SegmentationMode) (string, error) {
	m.images = append(m.images, img)
	m.modes = append(m.modes, mode)
	if m.err != nil {
		return "", m.err
	}
	i := len(m.images) - 1
	if i < len(m.answers) {
		return m.answers[i], nil
	}
	return "", nil
}

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 40, G: 80, B: 120, A: 255})
		}
	}
	return img
}

func TestExtractor_FirstPassWins(t *testing.T) {
	rec := &mockRecognizer{answers: []string{"SILVA\n"}}
	e := NewExtractor(map[text.Charset]text.Recognizer{text.Alphanumeric: rec})

	got, err := e.Extract(testFrame(), text.Rect{X1: 10, Y1: 10, X2: 60, Y2: 30}, text.Alphanumeric, text.SegmentSingleLine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SILVA" {
		t.Errorf("expected SILVA, got %q", got)
	}
	if len(rec.images) != 1 {
		t.Errorf("expected 1 recognition call, got %d", len(rec.images))
	}
	if rec.modes[0] != text.SegmentSingleLine {
		t.Errorf("expected single line mode, got %d", rec.modes[0])
	}
}

func TestExtractor_FallsBackToInverted(t *testing.T) {
	rec := &mockRecognizer{answers: []string{"", "\n", "FOO"}}
	e := NewExtractor(map[text.Charset]text.Recognizer{text.Alphanumeric: rec})

	got, err := e.Extract(testFrame(), text.Rect{X1: 0, Y1: 0, X2: 20, Y2: 10}, text.Alphanumeric, text.SegmentBlock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "FOO" {
		t.Errorf("expected FOO from the inverted pass, got %q", got)
	}
	if len(rec.images) != 3 {
		t.Fatalf("expected 3 recognition calls, got %d", len(rec.images))
	}

	if _, ok := rec.images[0].(*image.RGBA); !ok {
		t.Errorf("expected raw color crop first, got %T", rec.images[0])
	}
	gray, ok := rec.images[1].(*image.Gray)
	if !ok {
		t.Fatalf("expected grayscale second, got %T", rec.images[1])
	}
	inverted, ok := rec.images[2].(*image.Gray)
	if !ok {
		t.Fatalf("expected grayscale third, got %T", rec.images[2])
	}

	g := gray.GrayAt(0, 0).Y
	if inverted.GrayAt(0, 0).Y != 255-g {
		t.Errorf("expected inverted pixel %d, got %d", 255-g, inverted.GrayAt(0, 0).Y)
	}
}

func TestExtractor_AllPassesEmpty(t *testing.T) {
	rec := &mockRecognizer{}
	e := NewExtractor(map[text.Charset]text.Recognizer{text.Numeric: rec})

	got, err := e.Extract(testFrame(), text.Rect{X1: 0, Y1: 0, X2: 20, Y2: 10}, text.Numeric, text.SegmentSingleLine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
	if len(rec.images) != 3 {
		t.Errorf("expected every pass to be tried, got %d calls", len(rec.images))
	}
}

func TestExtractor_CropKeepsFrameCoordinates(t *testing.T) {
	rec := &mockRecognizer{answers: []string{"3"}}
	e := NewExtractor(map[text.Charset]text.Recognizer{text.Numeric: rec})
	rect := text.Rect{X1: 30, Y1: 40, X2: 90, Y2: 70}

	if _, err := e.Extract(testFrame(), rect, text.Numeric, text.SegmentSingleLine); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.images[0].Bounds(); got != rect.Image() {
		t.Errorf("expected crop bounds %v, got %v", rect.Image(), got)
	}
}

func TestExtractor_InvalidRegion(t *testing.T) {
	rec := &mockRecognizer{answers: []string{"X"}}
	e := NewExtractor(map[text.Charset]text.Recognizer{text.Alphanumeric: rec})

	tests := []struct {
		name string
		rect text.Rect
	}{
		{name: "x2 equals x1", rect: text.Rect{X1: 10, Y1: 0, X2: 10, Y2: 10}},
		{name: "x2 before x1", rect: text.Rect{X1: 20, Y1: 0, X2: 10, Y2: 10}},
		{name: "wider than frame", rect: text.Rect{X1: 150, Y1: 0, X2: 201, Y2: 10}},
		{name: "taller than frame", rect: text.Rect{X1: 0, Y1: 50, X2: 10, Y2: 101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(testFrame(), tt.rect, text.Alphanumeric, text.SegmentSingleLine)
			if !errors.Is(err, ErrInvalidRegion) {
				t.Errorf("expected ErrInvalidRegion, got %v", err)
			}
		})
	}

	if len(rec.images) != 0 {
		t.Errorf("expected no recognition for invalid regions, got %d calls", len(rec.images))
	}
}

func TestExtractor_RecognizerError(t *testing.T) {
	rec := &mockRecognizer{err: errors.New("engine crashed")}
	e := NewExtractor(map[text.Charset]text.Recognizer{text.Alphanumeric: rec})

	_, err := e.Extract(testFrame(), text.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}, text.Alphanumeric, text.SegmentSingleLine)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(rec.images) != 1 {
		t.Errorf("expected the error to stop escalation, got %d calls", len(rec.images))
	}
}

func TestExtractor_UnknownCharset(t *testing.T) {
	e := NewExtractor(map[text.Charset]text.Recognizer{})

	_, err := e.Extract(testFrame(), text.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}, text.Numeric, text.SegmentSingleLine)
	if !errors.Is(err, ErrNoRecognizer) {
		t.Errorf("expected ErrNoRecognizer, got %v", err)
	}
}

func TestExtractor_CustomPasses(t *testing.T) {
	rec := &mockRecognizer{answers: []string{"", "LATE"}}
	only := Preprocessor{Name: "raw", Apply: Raw}
	e := NewExtractor(map[text.Charset]text.Recognizer{text.Alphanumeric: rec})
	e.passes = []Preprocessor{only}

	got, err := e.Extract(testFrame(), text.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}, text.Alphanumeric, text.SegmentSingleLine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" || len(rec.images) != 1 {
		t.Errorf("expected a single empty pass, got %q after %d calls", got, len(rec.images))
	}
}
