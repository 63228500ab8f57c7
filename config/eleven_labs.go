package config

import (
	"fmt"
	"os"
)

const (
	DefaultElevenLabsApiUrl  = "https://api.elevenlabs.io/v1/text-to-speech"
	DefaultElevenLabsVoiceId = "21m00Tcm4TlvDq8ikWAM"
	DefaultElevenLabsModelId = "eleven_multilingual_v2"
)

type ElevenLabsConfig struct {
	ApiUrl          string
	ApiKey          string
	VoiceId         string
	ModelId         string
	Stability       float64
	SimilarityBoost float64
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_KEY must be set: %w", ErrNotConfigured)
	}
	stability, err := getFloatOrDefault("ELEVEN_LABS_STABILITY", 0.5)
	if err != nil {
		return nil, err
	}
	similarityBoost, err := getFloatOrDefault("ELEVEN_LABS_SIMILARITY_BOOST", 0.75)
	if err != nil {
		return nil, err
	}
	if stability < 0 || stability > 1 || similarityBoost < 0 || similarityBoost > 1 {
		return nil, fmt.Errorf("eleven labs voice settings must be between 0 and 1")
	}

	return &ElevenLabsConfig{
		ApiUrl:          getEnvOrDefault("ELEVEN_LABS_API_URL", DefaultElevenLabsApiUrl),
		ApiKey:          apiKey,
		VoiceId:         getEnvOrDefault("ELEVEN_LABS_VOICE_ID", DefaultElevenLabsVoiceId),
		ModelId:         getEnvOrDefault("ELEVEN_LABS_MODEL_ID", DefaultElevenLabsModelId),
		Stability:       stability,
		SimilarityBoost: similarityBoost,
	}, nil
}
