package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/disasterscience/nexrad/internal/adapter/httpadapter"
	kafkaadapter "github.com/disasterscience/nexrad/internal/adapter/kafka"
	"github.com/disasterscience/nexrad/internal/adapter/noaa"
	"github.com/disasterscience/nexrad/internal/config"
	"github.com/disasterscience/nexrad/internal/domain"
	"github.com/disasterscience/nexrad/internal/observability"
	"github.com/disasterscience/nexrad/internal/pipeline"
)

// logSink publishes summaries to the log instead of Kafka. Used when
// PUBLISH_ENABLED=false for dry runs against the live bucket.
type logSink struct {
	logger *slog.Logger
}

func (s *logSink) Publish(_ context.Context, summary domain.SweepSummary) error {
	s.logger.Info("sweep summary (publishing disabled)",
		"id", summary.ID,
		"site", summary.Site,
		"volume_time", summary.VolumeTime,
		"elevations", summary.ElevationCount,
		"radials", summary.RadialCount,
	)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := noaa.NewClient(cfg.NOAABaseURL, cfg.FetchTimeout, metrics, logger)
	source := noaa.NewCachedArchiveSource(client, cfg.ArchiveCacheSize, metrics)
	transformer := pipeline.NewTransformer(logger)

	// Sink selection is feature-flagged via PUBLISH_ENABLED.
	var sink pipeline.SummarySink
	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		sink = &logSink{logger: logger}
		logger.Info("kafka publishing disabled, summaries will be logged")
	}

	p := pipeline.New(source, transformer, sink, logger, metrics, cfg.RadarSites, cfg.PollInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ingest pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
