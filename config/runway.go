package config

import (
	"fmt"
	"os"
)

const (
	DefaultRunwayApiUrl     = "https://api.dev.runwayml.com/v1"
	DefaultRunwayApiVersion = "2024-11-06"
	DefaultRunwayModel      = "gen4_turbo"
	DefaultRunwayRatio      = "720:1280"
	DefaultRunwayDuration   = 5
)

type RunwayConfig struct {
	ApiUrl     string
	ApiKey     string
	ApiVersion string
	Model      string
	Ratio      string
	Duration   int
}

func GetRunwayConfig() (*RunwayConfig, error) {
	apiKey := os.Getenv("RUNWAY_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RUNWAY_API_KEY must be set: %w", ErrNotConfigured)
	}
	duration, err := getIntOrDefault("RUNWAY_DURATION", DefaultRunwayDuration)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("RUNWAY_DURATION must be positive")
	}

	return &RunwayConfig{
		ApiUrl:     getEnvOrDefault("RUNWAY_API_URL", DefaultRunwayApiUrl),
		ApiKey:     apiKey,
		ApiVersion: getEnvOrDefault("RUNWAY_API_VERSION", DefaultRunwayApiVersion),
		Model:      getEnvOrDefault("RUNWAY_MODEL", DefaultRunwayModel),
		Ratio:      getEnvOrDefault("RUNWAY_RATIO", DefaultRunwayRatio),
		Duration:   duration,
	}, nil
}
