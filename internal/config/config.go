package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Boxes  BoxesConfig  `json:"boxes"`
	Review ReviewConfig `json:"review"`
	Output OutputConfig `json:"output"`
}

// BoxesConfig holds configuration for box growth and overlap resolution
type BoxesConfig struct {
	InitialPadding      int     `json:"initial_padding"`
	InitialRightPadding int     `json:"initial_right_padding"`
	ExtendedPadding     int     `json:"extended_padding"`
	ReferencePadding    int     `json:"reference_padding"`
	OverlapThreshold    float64 `json:"overlap_threshold"`
}

// ReviewConfig holds configuration for the review session
type ReviewConfig struct {
	MinBubbleArea int `json:"min_bubble_area"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	OutputDir string `json:"output_dir"`
	CacheDir  string `json:"cache_dir"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Boxes: BoxesConfig{
			InitialPadding:      2,
			InitialRightPadding: 3,
			ExtendedPadding:     5,
			ReferencePadding:    20,
			OverlapThreshold:    20,
		},
		Review: ReviewConfig{
			MinBubbleArea: 400,
		},
		Output: OutputConfig{
			OutputDir: "./out",
			CacheDir:  "./cache",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Boxes.InitialPadding < 0 {
		return fmt.Errorf("boxes.initial_padding cannot be negative")
	}

	if c.Boxes.InitialRightPadding < 0 {
		return fmt.Errorf("boxes.initial_right_padding cannot be negative")
	}

	if c.Boxes.ExtendedPadding < 0 {
		return fmt.Errorf("boxes.extended_padding cannot be negative")
	}

	if c.Boxes.ReferencePadding < 0 {
		return fmt.Errorf("boxes.reference_padding cannot be negative")
	}

	if c.Boxes.OverlapThreshold < 0 || c.Boxes.OverlapThreshold > 100 {
		return fmt.Errorf("boxes.overlap_threshold must be between 0 and 100")
	}

	if c.Review.MinBubbleArea < 1 {
		return fmt.Errorf("review.min_bubble_area must be positive")
	}

	if c.Output.OutputDir == "" {
		return fmt.Errorf("output.output_dir cannot be empty")
	}

	if c.Output.CacheDir == "" {
		return fmt.Errorf("output.cache_dir cannot be empty")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "bubble-review", "config.json")
}
