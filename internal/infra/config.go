package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	DatabaseURL          string
	KlingAccessKey       string
	KlingSecretKey       string
	KlingBaseURL         string
	ElevenLabsAPIKey     string
	ElevenLabsBaseURL    string
	GeoIPDBPath          string
	DefaultNarrationLang string
	TrashTTL             time.Duration
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		KlingAccessKey:       os.Getenv("KLING_ACCESS_KEY"),
		KlingSecretKey:       os.Getenv("KLING_SECRET_KEY"),
		KlingBaseURL:         getEnv("KLING_BASE_URL", "https://api-singapore.klingai.com"),
		ElevenLabsAPIKey:     os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL:    getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"),
		GeoIPDBPath:          os.Getenv("GEOIP_DB_PATH"),
		DefaultNarrationLang: getEnv("DEFAULT_NARRATION_LANG", "ko"),
		TrashTTL:             24 * time.Hour * time.Duration(getEnvInt("TRASH_TTL_DAYS", 30)),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
