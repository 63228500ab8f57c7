package config

import (
	"fmt"
	"os"
)

const (
	DefaultGptApiUrl = "https://api.openai.com/v1/chat/completions"
	DefaultGptModel  = "gpt-4o-mini"
)

type GptConfig struct {
	ApiUrl      string
	ApiKey      string
	Model       string
	Temperature float64
}

func GetGptConfig() (*GptConfig, error) {
	apiKey := os.Getenv("GPT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GPT_API_KEY must be set: %w", ErrNotConfigured)
	}
	temperature, err := getFloatOrDefault("GPT_TEMPERATURE", 0.8)
	if err != nil {
		return nil, err
	}
	return &GptConfig{
		ApiUrl:      getEnvOrDefault("GPT_API_URL", DefaultGptApiUrl),
		ApiKey:      apiKey,
		Model:       getEnvOrDefault("GPT_MODEL", DefaultGptModel),
		Temperature: temperature,
	}, nil
}
