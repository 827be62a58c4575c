package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DataDir  string
	Provider ProviderConfig
	AI       AIConfig
	Log      LogConfig
}

type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	providerTimeout, err := time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}

	aiTimeout, err := time.ParseDuration(getEnv("AI_TIMEOUT", "120s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}

	aiMaxTokens, err := strconv.Atoi(getEnv("AI_MAX_TOKENS", "512"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_MAX_TOKENS: %w", err)
	}
	if aiMaxTokens <= 0 {
		return nil, fmt.Errorf("AI_MAX_TOKENS must be positive")
	}

	aiTemperature, err := strconv.ParseFloat(getEnv("AI_TEMPERATURE", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TEMPERATURE: %w", err)
	}
	if aiTemperature < 0 || aiTemperature > 2 {
		return nil, fmt.Errorf("AI_TEMPERATURE must be between 0 and 2")
	}

	dataDir := getEnv("MEDISAVE_DATA_DIR", "data")

	cfg := &Config{
		DataDir: dataDir,
		Provider: ProviderConfig{
			BaseURL: strings.TrimRight(getEnv("PROVIDER_URL", "http://localhost:5000"), "/"),
			Timeout: providerTimeout,
		},
		AI: AIConfig{
			APIKey:      getEnv("AI_API_KEY", ""),
			BaseURL:     strings.TrimRight(getEnv("AI_BASE_URL", "https://api.deepseek.com"), "/"),
			Model:       getEnv("AI_MODEL", "deepseek-chat"),
			MaxTokens:   aiMaxTokens,
			Temperature: aiTemperature,
			Timeout:     aiTimeout,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", filepath.Join(dataDir, "medisave.log")),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
