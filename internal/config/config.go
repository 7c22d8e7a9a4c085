package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN             string
	DBConnectAttempts int
	ServerPort        string
	SessionSecret     string

	LogLevel  string
	LogFormat string

	// RedisAddr empty disables the equipment catalog cache.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	// KafkaBrokers empty disables change events.
	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "catalog-events"
	}

	var err error
	if cfg.DBConnectAttempts, err = intEnv("DB_CONNECT_ATTEMPTS", 10); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.CatalogCacheTTL = 10 * time.Minute
	if raw := os.Getenv("CATALOG_CACHE_TTL"); raw != "" {
		cfg.CatalogCacheTTL, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("CATALOG_CACHE_TTL: %w", err)
		}
	}

	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
