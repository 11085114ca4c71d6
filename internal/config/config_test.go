package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RADAR_SITES", "KCRP")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "nexrad-sweep-summaries", cfg.KafkaTopic)
	assert.Equal(t, "https://noaa-nexrad-level2.s3.amazonaws.com", cfg.NOAABaseURL)
	assert.Equal(t, []string{"KCRP"}, cfg.RadarSites)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, time.Minute, cfg.FetchTimeout)
	assert.Equal(t, 32, cfg.ArchiveCacheSize)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.PublishEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-sweeps")
	t.Setenv("NOAA_BASE_URL", "http://localhost:4566")
	t.Setenv("RADAR_SITES", "kcrp, ktlx ,KDMX")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("FETCH_TIMEOUT", "15s")
	t.Setenv("ARCHIVE_CACHE_SIZE", "8")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("PUBLISH_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sweeps", cfg.KafkaTopic)
	assert.Equal(t, "http://localhost:4566", cfg.NOAABaseURL)
	assert.Equal(t, []string{"KCRP", "KTLX", "KDMX"}, cfg.RadarSites, "sites are trimmed and uppercased")
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 8, cfg.ArchiveCacheSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.PublishEnabled)
}

func TestLoad_MissingSites(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RADAR_SITES")
}

func TestLoad_MalformedSite(t *testing.T) {
	t.Setenv("RADAR_SITES", "KCRP,CORPUS")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORPUS")
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	t.Setenv("RADAR_SITES", "KCRP")
	t.Setenv("POLL_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
}

func TestLoad_NegativePollInterval(t *testing.T) {
	t.Setenv("RADAR_SITES", "KCRP")
	t.Setenv("POLL_INTERVAL", "-5s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("RADAR_SITES", "KCRP")
	t.Setenv("ARCHIVE_CACHE_SIZE", "zero")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARCHIVE_CACHE_SIZE")
}

func TestLoad_PublishDisabledSkipsKafkaValidation(t *testing.T) {
	t.Setenv("RADAR_SITES", "KCRP")
	t.Setenv("PUBLISH_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", " ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.KafkaBrokers)
}
