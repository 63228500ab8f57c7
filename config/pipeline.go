package config

import (
	"fmt"
	"time"
)

type PipelineConfig struct {
	ScriptTimeout     time.Duration
	AssetCallTimeout  time.Duration
	VideoPollInterval time.Duration
	VideoPollTimeout  time.Duration
	WorkerPoolSize    int
	MockScriptFile    string
}

func GetPipelineConfig() (*PipelineConfig, error) {
	scriptTimeout, err := getDurationOrDefault("SCRIPT_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, err
	}
	assetCallTimeout, err := getDurationOrDefault("ASSET_CALL_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	pollInterval, err := getDurationOrDefault("VIDEO_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}
	pollTimeout, err := getDurationOrDefault("VIDEO_POLL_TIMEOUT", 40*time.Second)
	if err != nil {
		return nil, err
	}
	if pollInterval > pollTimeout {
		return nil, fmt.Errorf("VIDEO_POLL_INTERVAL must not exceed VIDEO_POLL_TIMEOUT")
	}
	poolSize, err := getIntOrDefault("WORKER_POOL_SIZE", 120)
	if err != nil {
		return nil, err
	}
	if poolSize < 1 {
		return nil, fmt.Errorf("WORKER_POOL_SIZE must be at least 1")
	}

	return &PipelineConfig{
		ScriptTimeout:     scriptTimeout,
		AssetCallTimeout:  assetCallTimeout,
		VideoPollInterval: pollInterval,
		VideoPollTimeout:  pollTimeout,
		WorkerPoolSize:    poolSize,
		MockScriptFile:    getEnvOrDefault("MOCK_SCRIPT_FILE", ""),
	}, nil
}
