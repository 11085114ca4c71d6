package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/disasterscience/nexrad/internal/domain"
	"github.com/disasterscience/nexrad/internal/level2"
	"github.com/disasterscience/nexrad/internal/observability"
)

// ArchiveSource lists and fetches Level II archive objects.
type ArchiveSource interface {
	List(ctx context.Context, site string, day time.Time) ([]string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

// Transformer converts one raw archive into a sweep summary.
type Transformer interface {
	Transform(ctx context.Context, key string, data []byte) (domain.SweepSummary, error)
}

// SummarySink publishes sweep summaries to the destination.
type SummarySink interface {
	Publish(ctx context.Context, summary domain.SweepSummary) error
}

// Pipeline orchestrates the poll-decode-publish loop.
type Pipeline struct {
	source      ArchiveSource
	transformer Transformer
	sink        SummarySink
	logger      *slog.Logger
	metrics     *observability.Metrics
	sites       []string
	interval    time.Duration
	ready       atomic.Bool

	// processed holds keys already summarized by this process. A site uploads
	// a few hundred volumes per day, so the map stays small between restarts.
	processed map[string]struct{}
}

// New creates a Pipeline that polls the given sites every interval.
func New(src ArchiveSource, t Transformer, sink SummarySink, logger *slog.Logger, metrics *observability.Metrics, sites []string, interval time.Duration) *Pipeline {
	return &Pipeline{
		source:      src,
		transformer: t,
		sink:        sink,
		logger:      logger,
		metrics:     metrics,
		sites:       sites,
		interval:    interval,
		processed:   make(map[string]struct{}),
	}
}

// CheckReadiness returns nil once the pipeline has completed a poll cycle,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a poll cycle yet")
	}
	return nil
}

// Run executes the poll loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "sites", p.sites, "poll_interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Backoff after a failed listing starts at 200ms, doubles each retry,
	// and caps at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.runCycle(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// runCycle polls every configured site once and waits out the poll interval.
// Returns false if the pipeline should stop.
func (p *Pipeline) runCycle(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()
	day := clock.Now().UTC()

	listFailed := false
	for _, site := range p.sites {
		keys, err := p.source.List(ctx, site, day)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			p.logger.Error("list archives failed", "site", site, "error", err)
			listFailed = true
			continue
		}
		for _, key := range keys {
			if ctx.Err() != nil {
				return false
			}
			if _, done := p.processed[key]; done {
				continue
			}
			p.processArchive(ctx, key)
		}
	}

	if listFailed {
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	*backoff = 200 * time.Millisecond
	p.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return sleepWithContext(ctx, p.interval)
}

// processArchive downloads, decodes, and publishes one archive. Keys are
// marked processed on success and on decode failure; bucket objects are
// immutable, so a malformed archive never becomes decodable on retry.
// Download and publish failures leave the key eligible for the next cycle.
func (p *Pipeline) processArchive(ctx context.Context, key string) {
	data, err := p.source.Download(ctx, key)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("download archive failed", "key", key, "error", err)
		}
		return
	}

	summary, err := p.transformer.Transform(ctx, key, data)
	if err != nil {
		p.logger.Warn("transform failed, skipping archive", "key", key, "error", err)
		p.metrics.DecodeFailures.WithLabelValues(failureKind(err)).Inc()
		p.processed[key] = struct{}{}
		return
	}
	p.metrics.DecodeSuccesses.Inc()
	p.metrics.RadialsDecoded.Add(float64(summary.RadialCount))

	if err := p.sink.Publish(ctx, summary); err != nil {
		if ctx.Err() == nil {
			p.logger.Error("publish summary failed", "key", key, "error", err)
		}
		p.metrics.PublishErrors.Inc()
		return
	}
	p.metrics.SummariesPublished.Inc()
	p.processed[key] = struct{}{}

	p.logger.Info("sweep summary published",
		"key", key,
		"id", summary.ID,
		"site", summary.Site,
		"elevations", summary.ElevationCount,
		"radials", summary.RadialCount,
	)
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// failureKind maps a transform error onto its decode_failures metric label.
func failureKind(err error) string {
	switch {
	case errors.Is(err, level2.ErrTruncated):
		return "truncated"
	case errors.Is(err, level2.ErrOverflow):
		return "overflow"
	case errors.Is(err, level2.ErrUnhandledProduct):
		return "unhandled_product"
	case errors.Is(err, level2.ErrDecompressionUnsupported):
		return "decompression"
	default:
		return "other"
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
