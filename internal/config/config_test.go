package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://disease.sh", cfg.StatsAPIURL)
	assert.Equal(t, 10*time.Second, cfg.StatsAPITimeout)
	assert.Equal(t, 120, cfg.HistoryDays)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "covid-dashboard-state", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("STATS_API_URL", "http://localhost:3000")
	t.Setenv("STATS_API_TIMEOUT", "2s")
	t.Setenv("HISTORY_DAYS", "30")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.StatsAPIURL)
	assert.Equal(t, 2*time.Second, cfg.StatsAPITimeout)
	assert.Equal(t, 30, cfg.HistoryDays)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidStatsAPITimeout(t *testing.T) {
	t.Setenv("STATS_API_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATS_API_TIMEOUT")
}

func TestLoad_NegativeStatsAPITimeout(t *testing.T) {
	t.Setenv("STATS_API_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATS_API_TIMEOUT")
}

func TestLoad_InvalidStatsAPIURL(t *testing.T) {
	for _, v := range []string{"disease.sh", "ftp://disease.sh", "://nope"} {
		t.Setenv("STATS_API_URL", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "STATS_API_URL")
	}
}

func TestLoad_InvalidHistoryDays(t *testing.T) {
	for _, v := range []string{"0", "1001", "ten"} {
		t.Setenv("HISTORY_DAYS", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "HISTORY_DAYS")
	}
}

func TestLoad_KafkaDisabledUnlessExplicit(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "yes")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
