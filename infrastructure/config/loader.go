package config

import (
	"errors"
	"fmt"
	"os"

	"ebp-replay-analyzer/domain/detection"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its configuration
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Analysis   AnalysisConfig  `yaml:"analysis"`
	Tesseract  TesseractConfig `yaml:"tesseract"`
	FFmpeg     FFmpegConfig    `yaml:"ffmpeg"`
	Output     OutputConfig    `yaml:"output"`
	LayoutFile string          `yaml:"layout_file,omitempty"`
}

// AnalysisConfig tunes the backward scan of a recording
type AnalysisConfig struct {
	SampleIntervalSeconds int `yaml:"sample_interval_seconds"`
	EndScreenSkipSeconds  int `yaml:"end_screen_skip_seconds"`
	StartOffsetSeconds    int `yaml:"start_offset_seconds"`
	NameSampleQuota       int `yaml:"name_sample_quota"`
	MinNameLength         int `yaml:"min_name_length"`
	MatchCapMinutes       int `yaml:"match_cap_minutes"`
}

// TesseractConfig contains OCR engine settings
type TesseractConfig struct {
	Language string `yaml:"language"`
	DataPath string `yaml:"data_path,omitempty"`
}

// FFmpegConfig contains the ffmpeg executable used for probing and cutting
type FFmpegConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig contains where generated clips go
type OutputConfig struct {
	ClipDirectory string `yaml:"clip_directory"`
}

// DefaultAnalysis returns the scan settings tuned for the game UI
func DefaultAnalysis() AnalysisConfig {
	return AnalysisConfig{
		SampleIntervalSeconds: 2,
		EndScreenSkipSeconds:  30,
		StartOffsetSeconds:    2,
		NameSampleQuota:       10,
		MinNameLength:         2,
		MatchCapMinutes:       10,
	}
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Analysis:  DefaultAnalysis(),
		Tesseract: TesseractConfig{Language: "eng"},
		FFmpeg:    FFmpegConfig{Path: "ffmpeg"},
		Output:    OutputConfig{ClipDirectory: "clips"},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Analysis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis settings: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the scan settings are usable
func (a AnalysisConfig) Validate() error {
	if a.SampleIntervalSeconds <= 0 {
		return fmt.Errorf("sample_interval_seconds must be positive, got %d", a.SampleIntervalSeconds)
	}
	if a.EndScreenSkipSeconds < 0 {
		return fmt.Errorf("end_screen_skip_seconds must not be negative, got %d", a.EndScreenSkipSeconds)
	}
	if a.NameSampleQuota <= 0 {
		return fmt.Errorf("name_sample_quota must be positive, got %d", a.NameSampleQuota)
	}
	if a.MatchCapMinutes < 0 {
		return fmt.Errorf("match_cap_minutes must not be negative, got %d", a.MatchCapMinutes)
	}
	return nil
}

// Layout returns the detection layout, read from LayoutFile when set
func (c *Config) Layout() (detection.Layout, error) {
	if c.LayoutFile == "" {
		return detection.DefaultLayout(), nil
	}
	return LoadLayout(c.LayoutFile)
}
