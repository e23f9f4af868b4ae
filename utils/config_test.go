package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Architecture: []int{784, 30, 10},
		DataPath:     "mnist.zip",
		Epochs:       30,
		BatchSize:    10,
		LearningRate: 3.0,
		TestSize:     10000,
	}
}

func TestParseArchitecture(t *testing.T) {
	arch, err := ParseArchitecture("784 30 10")
	require.NoError(t, err)
	require.Equal(t, []int{784, 30, 10}, arch)

	arch, err = ParseArchitecture("  2\t3  1 ")
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 1}, arch)

	arch, err = ParseArchitecture("")
	require.NoError(t, err)
	require.Empty(t, arch)

	_, err = ParseArchitecture("784 x 10")
	require.Error(t, err)
	_, err = ParseArchitecture("784 0 10")
	require.ErrorContains(t, err, "layer 1")
	_, err = ParseArchitecture("-4 2")
	require.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, ValidateConfig(&cfg))

	cfg.TestSize = 0
	require.NoError(t, ValidateConfig(&cfg))

	cases := map[string]func(*Config){
		"single layer":     func(c *Config) { c.Architecture = []int{10} },
		"no data":          func(c *Config) { c.DataPath = "" },
		"zero epochs":      func(c *Config) { c.Epochs = 0 },
		"zero batch":       func(c *Config) { c.BatchSize = 0 },
		"negative lr":      func(c *Config) { c.LearningRate = -1 },
		"zero lr":          func(c *Config) { c.LearningRate = 0 },
		"nan lr":           func(c *Config) { c.LearningRate = math.NaN() },
		"negative testset": func(c *Config) { c.TestSize = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			require.Error(t, ValidateConfig(&cfg))
		})
	}
}
