package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers []string
	KafkaTopic   string

	NOAABaseURL      string
	RadarSites       []string
	PollInterval     time.Duration
	FetchTimeout     time.Duration
	ArchiveCacheSize int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// PublishEnabled gates the Kafka sink; when false the pipeline decodes
	// and summarizes but drops summaries, which is useful for dry runs.
	PublishEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	pollInterval, err := parseDurationEnv("POLL_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDurationEnv("FETCH_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveIntEnv("ARCHIVE_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}

	publishEnabled := true
	if v := os.Getenv("PUBLISH_ENABLED"); v != "" {
		publishEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:     parseCSV(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:       envOrDefault("KAFKA_TOPIC", "nexrad-sweep-summaries"),
		NOAABaseURL:      envOrDefault("NOAA_BASE_URL", "https://noaa-nexrad-level2.s3.amazonaws.com"),
		RadarSites:       normalizeSites(parseCSV(os.Getenv("RADAR_SITES"))),
		PollInterval:     pollInterval,
		FetchTimeout:     fetchTimeout,
		ArchiveCacheSize: cacheSize,
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		PublishEnabled:   publishEnabled,
	}

	if len(cfg.RadarSites) == 0 {
		return nil, errors.New("RADAR_SITES is required")
	}
	for _, site := range cfg.RadarSites {
		if len(site) != 4 {
			return nil, errors.New("invalid RADAR_SITES: " + site + " is not a four character site identifier")
		}
	}
	if cfg.NOAABaseURL == "" {
		return nil, errors.New("NOAA_BASE_URL is required")
	}
	if cfg.PublishEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required")
		}
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseCSV splits a comma separated list, trimming whitespace and dropping
// empty entries.
func parseCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeSites(sites []string) []string {
	for i, s := range sites {
		sites[i] = strings.ToUpper(s)
	}
	return sites
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parsePositiveIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
