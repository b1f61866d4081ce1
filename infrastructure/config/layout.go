package config

import (
	"fmt"
	"os"

	"ebp-replay-analyzer/domain/detection"

	"gopkg.in/yaml.v3"
)

// LoadLayout reads a detection layout from YAML and validates it
func LoadLayout(path string) (detection.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return detection.Layout{}, fmt.Errorf("failed to read layout file: %w", err)
	}

	var layout detection.Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return detection.Layout{}, fmt.Errorf("failed to parse layout file: %w", err)
	}

	if err := layout.Validate(); err != nil {
		return detection.Layout{}, fmt.Errorf("invalid layout %s: %w", path, err)
	}

	return layout, nil
}

// SaveLayout writes a detection layout as YAML
func SaveLayout(layout detection.Layout, path string) error {
	data, err := yaml.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to serialize layout: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}

	return nil
}
