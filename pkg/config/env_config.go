// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by ApplyEnvironmentOverrides
const (
	EnvTickRate         = "PHYS2D_TICK_RATE"
	EnvIterations       = "PHYS2D_ITERATIONS"
	EnvRestitution      = "PHYS2D_RESTITUTION"
	EnvGravityX         = "PHYS2D_GRAVITY_X"
	EnvGravityY         = "PHYS2D_GRAVITY_Y"
	EnvQuadtreeCapacity = "PHYS2D_QUADTREE_CAPACITY"
	EnvQuadtreeMinArea  = "PHYS2D_QUADTREE_MIN_AREA"
	EnvMaxFrameDelta    = "PHYS2D_MAX_FRAME_DELTA"
	EnvContactMode      = "PHYS2D_CONTACT_MODE"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error for %s: %s", e.Field, e.Message)
}

// ApplyEnvironmentOverrides overlays PHYS2D_* environment variables on cfg
// and validates the result. Unset or unparsable variables keep the current
// value.
func ApplyEnvironmentOverrides(cfg *SimulationConfig) error {
	if cfg == nil {
		return &ValidationError{Field: "simulation", Message: "nil config"}
	}

	cfg.TickRate = getEnvAsIntOrDefault(EnvTickRate, cfg.TickRate)
	cfg.Iterations = getEnvAsIntOrDefault(EnvIterations, cfg.Iterations)
	cfg.Restitution = getEnvAsFloatOrDefault(EnvRestitution, cfg.Restitution)
	cfg.Gravity.X = getEnvAsFloatOrDefault(EnvGravityX, cfg.Gravity.X)
	cfg.Gravity.Y = getEnvAsFloatOrDefault(EnvGravityY, cfg.Gravity.Y)
	cfg.Quadtree.Capacity = getEnvAsIntOrDefault(EnvQuadtreeCapacity, cfg.Quadtree.Capacity)
	cfg.Quadtree.MinArea = getEnvAsFloatOrDefault(EnvQuadtreeMinArea, cfg.Quadtree.MinArea)
	cfg.MaxFrameDelta = Duration(getEnvAsDurationOrDefault(EnvMaxFrameDelta, time.Duration(cfg.MaxFrameDelta)))
	cfg.ContactMode = getEnvOrDefault(EnvContactMode, cfg.ContactMode)

	return cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
