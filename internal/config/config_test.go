package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "host=localhost dbname=catalog")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"SERVER_PORT", "LOG_LEVEL", "LOG_FORMAT", "REDIS_ADDR", "REDIS_DB",
		"KAFKA_BROKERS", "KAFKA_TOPIC", "CATALOG_CACHE_TTL", "DB_CONNECT_ATTEMPTS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10, cfg.DBConnectAttempts)
	assert.Equal(t, 10*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, "catalog-events", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		t.Setenv("DB_DSN", "")
		t.Setenv("SESSION_SECRET", "secret")
		_, err := Load()
		assert.EqualError(t, err, "DB_DSN is not set")
	})

	t.Run("missing session secret", func(t *testing.T) {
		t.Setenv("DB_DSN", "dsn")
		t.Setenv("SESSION_SECRET", "")
		_, err := Load()
		assert.EqualError(t, err, "SESSION_SECRET is not set")
	})

	t.Run("bad integer", func(t *testing.T) {
		setRequired(t)
		t.Setenv("REDIS_DB", "two")
		_, err := Load()
		assert.ErrorContains(t, err, "REDIS_DB")
	})
}
