// Package config resolves process configuration from the environment, once
// at startup. The job description itself lives in a separate JSON file; see
// the job package.
package config

import (
	"os"
	"strconv"

	"fieldscan/internal/logger"
)

// DefaultJobConfigPath is used when FIELDSCAN_CONFIG is unset and no
// --config flag is given.
const DefaultJobConfigPath = "config.json"

// Config carries environment-derived settings for one invocation.
type Config struct {
	// Job Configuration
	JobConfigPath string

	// External Services
	OCREngine   string // "tesseract" or "vision"
	PdftoppmBin string
	DPI         int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	return &Config{
		JobConfigPath: getEnv("FIELDSCAN_CONFIG", DefaultJobConfigPath),
		OCREngine:     getEnv("OCR_ENGINE", "tesseract"),
		PdftoppmBin:   getEnv("PDFTOPPM_BIN", "pdftoppm"),
		DPI:           getEnvInt("OCR_DPI", 300),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
