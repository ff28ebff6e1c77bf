package api

import (
	"context"
	"log/slog"

	"rsvpd/internal/config"
	"rsvpd/internal/jobs"
	"rsvpd/internal/logging"
	"rsvpd/internal/services/ffmpeg"
	"rsvpd/internal/worker"
)

// GenerateLocal runs the pipeline synchronously without opening the service:
// no instance lock, no persistent store, no worker pool. Used by the
// one-shot CLI path.
func GenerateLocal(ctx context.Context, cfg *config.Config, logger *slog.Logger, inputPath, outputDir string, params jobs.VideoParams, opts ...Option) ([]string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	encoder := o.encoder
	if encoder == nil {
		client, err := ffmpeg.New("ffmpeg", 0)
		if err != nil {
			return nil, err
		}
		encoder = client
	}
	pipeline := worker.New(jobs.NewManager(jobs.NewMemoryStore()), encoder, cfg, logger)
	return pipeline.Generate(ctx, inputPath, outputDir, params)
}
