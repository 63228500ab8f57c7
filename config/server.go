package config

import "fmt"

type ServerConfig struct {
	Port     int
	LogLevel string
}

func GetServerConfig() (*ServerConfig, error) {
	port, err := getIntOrDefault("PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT: must be between 1 and 65535")
	}
	return &ServerConfig{
		Port:     port,
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}
