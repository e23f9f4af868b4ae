package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds training configuration
type Config struct {
	Architecture []int
	DataPath     string
	Epochs       int
	BatchSize    int
	LearningRate float64
	TestSize     int
	Seed         uint64
	AnalysisPath string
}

// ParseArchitecture parses architecture string into slice of integers
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.Fields(archStr)
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("layer %d: size must be positive, got %d", i, n)
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if len(config.Architecture) < 2 {
		return fmt.Errorf("architecture must have at least 2 layers (input and output)")
	}

	if config.DataPath == "" {
		return fmt.Errorf("data path is required")
	}

	if config.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if !(config.LearningRate > 0) {
		return fmt.Errorf("learning rate must be positive")
	}

	if config.TestSize < 0 {
		return fmt.Errorf("test size must not be negative")
	}

	return nil
}
