// Package config loads runtime settings from the environment with sensible
// defaults, following the WITCHGRAPH_* naming convention.
package config

import (
	"os"
	"strconv"

	"github.com/Myllenam/grafoWitchTrials/pkg/graph"
)

// Config holds the tunable behavior of an analysis run.
type Config struct {
	// Strict aborts the build on the first data-integrity violation
	// instead of skipping the record. WITCHGRAPH_STRICT.
	Strict bool

	// CoordinatePolicy selects first_wins or fill_missing attribute
	// capture for repeat locations. WITCHGRAPH_COORD_POLICY.
	CoordinatePolicy graph.CoordinatePolicy

	// TopN bounds the ranked tables printed by the CLI. WITCHGRAPH_TOP_N.
	TopN int
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Strict:           getBool("WITCHGRAPH_STRICT", false),
		CoordinatePolicy: getCoordPolicy("WITCHGRAPH_COORD_POLICY", graph.CoordinateFirstWins),
		TopN:             getInt("WITCHGRAPH_TOP_N", 10),
	}
}

// BuilderConfig translates the runtime settings into builder settings.
func (c *Config) BuilderConfig() graph.BuilderConfig {
	cfg := graph.DefaultBuilderConfig()
	cfg.Strict = c.Strict
	cfg.CoordinatePolicy = c.CoordinatePolicy
	return cfg
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getCoordPolicy(key string, defaultValue graph.CoordinatePolicy) graph.CoordinatePolicy {
	switch os.Getenv(key) {
	case "fill_missing":
		return graph.CoordinateFillMissing
	case "first_wins":
		return graph.CoordinateFirstWins
	default:
		return defaultValue
	}
}
