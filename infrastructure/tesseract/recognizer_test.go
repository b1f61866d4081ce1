//go:build detection

package tesseract

import (
	"testing"

	"ebp-replay-analyzer/infrastructure/config"
)

func TestNewSet_MissingLanguageFailsAtStartup(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TesseractConfig
	}{
		{name: "unknown language", cfg: config.TesseractConfig{Language: "no-such-language"}},
		{name: "empty data directory", cfg: config.TesseractConfig{Language: "eng", DataPath: t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewSet(tt.cfg)
			if err == nil {
				set.Close()
				t.Fatal("expected initialization to fail")
			}
		})
	}
}
