package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disasterscience/nexrad/internal/domain"
	"github.com/disasterscience/nexrad/internal/level2"
	"github.com/disasterscience/nexrad/internal/metadata"
)

// ArchiveTransformer implements Transformer by decoding a Level II archive
// volume and reducing it to its sweep summary.
type ArchiveTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates an ArchiveTransformer.
func NewTransformer(logger *slog.Logger) *ArchiveTransformer {
	return &ArchiveTransformer{logger: logger}
}

func (t *ArchiveTransformer) Transform(_ context.Context, key string, data []byte) (domain.SweepSummary, error) {
	meta, err := metadata.Parse(key)
	if err != nil {
		return domain.SweepSummary{}, fmt.Errorf("parse archive name %q: %w", key, err)
	}

	df, err := level2.Decode(data)
	if err != nil {
		return domain.SweepSummary{}, fmt.Errorf("decode %s: %w", meta.Identifier, err)
	}
	t.logger.Debug("archive decoded",
		"identifier", meta.Identifier,
		"bytes", len(data),
		"elevations", len(df.ElevationScans()),
	)

	return domain.Summarize(df, meta)
}
