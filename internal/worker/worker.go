package worker

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"rsvpd/internal/assemble"
	"rsvpd/internal/config"
	"rsvpd/internal/extract"
	"rsvpd/internal/jobs"
	"rsvpd/internal/logging"
	"rsvpd/internal/pacing"
	"rsvpd/internal/render"
	"rsvpd/internal/services"
	"rsvpd/internal/services/ffmpeg"
	"rsvpd/internal/words"
)

// progressStride is how many rendered words pass between progress writes.
const progressStride = 100

// Pipeline runs the document-to-video stages for one job at a time. It is
// safe to share across goroutines; all per-run state lives on the stack.
type Pipeline struct {
	manager *jobs.Manager
	encoder ffmpeg.Encoder
	cfg     *config.Config
	fonts   *render.FontSource
	logger  *slog.Logger
}

// New constructs a pipeline. Fonts are resolved once up front.
func New(manager *jobs.Manager, encoder ffmpeg.Encoder, cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		manager: manager,
		encoder: encoder,
		cfg:     cfg,
		fonts:   render.ResolveFont(cfg.Render.FontPaths, logger),
		logger:  logger,
	}
}

// Run claims the job, executes every stage, and records exactly one terminal
// transition. The returned error reflects the run outcome; by the time Run
// returns, the record (if it still exists) is COMPLETED or FAILED.
func (p *Pipeline) Run(ctx context.Context, jobID string) error {
	logger := p.logger.With(logging.String(logging.FieldJobID, jobID))

	job, err := p.manager.ClaimProcessing(ctx, jobID)
	if err != nil {
		logger.Warn("claim failed", logging.Error(err))
		return err
	}
	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("filename", job.Filename))

	p.record(ctx, logger, jobID, func(j *jobs.Job) {
		j.CurrentStep = "Extracting text from document"
	})

	outputs, duration, runErr := p.process(ctx, logger, job.UploadPath, job.Params,
		filepath.Join(p.cfg.OutputsDir(), jobID), stem(job.Filename),
		func(percent float64, step string, totalWords, processedWords int) {
			p.record(ctx, logger, jobID, func(j *jobs.Job) {
				if percent > j.ProgressPercent {
					j.ProgressPercent = percent
				}
				if step != "" {
					j.CurrentStep = step
				}
				if totalWords > 0 {
					j.TotalWords = totalWords
				}
				if processedWords > j.ProcessedWords {
					j.ProcessedWords = processedWords
				}
			})
		})

	if runErr != nil {
		logger.Error("job failed",
			logging.String(logging.FieldEventType, "job_failure"),
			logging.Error(runErr))
		p.record(ctx, logger, jobID, func(j *jobs.Job) {
			now := time.Now().UTC()
			j.Status = jobs.StatusFailed
			j.CompletedAt = &now
			j.CurrentStep = "Failed"
			j.ErrorMessage = services.Message(runErr)
		})
		return runErr
	}

	p.record(ctx, logger, jobID, func(j *jobs.Job) {
		now := time.Now().UTC()
		j.Status = jobs.StatusCompleted
		j.CompletedAt = &now
		j.ProgressPercent = 100
		j.CurrentStep = "Complete"
		j.ProcessedWords = j.TotalWords
		j.OutputFiles = outputs
		j.VideoDurationSeconds = duration
	})
	logger.Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.Int("outputs", len(outputs)))
	return nil
}

// Generate runs the same stage sequence synchronously without the job layer,
// writing outputs under outputDir and returning their names in order.
func (p *Pipeline) Generate(ctx context.Context, inputPath, outputDir string, params jobs.VideoParams) ([]string, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	outputs, _, err := p.process(ctx, p.logger, inputPath, params, outputDir, stem(filepath.Base(inputPath)), nil)
	return outputs, err
}

type progressFunc func(percent float64, step string, totalWords, processedWords int)

// process is the shared stage sequence: extract, tokenize, schedule, render,
// assemble, probe.
func (p *Pipeline) process(ctx context.Context, logger *slog.Logger, inputPath string, params jobs.VideoParams, outputDir, baseName string, onProgress progressFunc) ([]string, *float64, error) {
	report := func(percent float64, step string, total, processed int) {
		if onProgress != nil {
			onProgress(percent, step, total, processed)
		}
	}

	text, err := runStage(logger, "extract", func() (string, error) {
		return extract.Text(inputPath)
	})
	if err != nil {
		return nil, nil, err
	}

	if params.Preprocess {
		text = words.Clean(text)
	}
	tokens := words.Tokenize(text)
	if len(tokens) == 0 {
		return nil, nil, services.Wrap(services.ErrFormat, "tokenize", "tokenize",
			"no words found in text", nil)
	}
	report(10, "Scheduling words", len(tokens), 0)

	units, err := pacing.BuildUnits(tokens,
		float64(params.StartWPM), float64(params.PeakWPM), params.RampWords, params.RampStyle)
	if err != nil {
		return nil, nil, err
	}
	report(20, "Generating video frames", len(tokens), 0)

	composer, err := p.newComposer(params)
	if err != nil {
		return nil, nil, err
	}

	assembler := assemble.New(composer, p.encoder, logger)
	outputs, err := runStage(logger, "assemble", func() ([]string, error) {
		return assembler.Assemble(ctx, units, assemble.Options{
			OutputDir:    outputDir,
			BaseName:     baseName,
			FPS:          params.FPS,
			ChunkSeconds: params.ChunkDuration,
		}, func(done, total int) {
			switch {
			case done == total:
				report(90, "Encoding video", total, done)
			case done%progressStride == 0:
				percent := 20 + 70*float64(done)/float64(total)
				report(percent, "", total, done)
			}
		})
	})
	if err != nil {
		return nil, nil, err
	}

	return outputs, p.probeOutputs(ctx, logger, outputDir, outputs), nil
}

func (p *Pipeline) newComposer(params jobs.VideoParams) (*render.Composer, error) {
	style := render.Style{
		Width:    params.Width,
		Height:   params.Height,
		FontSize: params.FontSize,
		ShowWPM:  params.ShowWPM,
	}
	var err error
	if style.Background, err = render.ParseHexColor(params.BackgroundColor); err != nil {
		return nil, services.Wrap(services.ErrValidation, "render", "parse_colors", "background color", err)
	}
	if style.Text, err = render.ParseHexColor(params.TextColor); err != nil {
		return nil, services.Wrap(services.ErrValidation, "render", "parse_colors", "text color", err)
	}
	if style.Highlight, err = render.ParseHexColor(params.HighlightColor); err != nil {
		return nil, services.Wrap(services.ErrValidation, "render", "parse_colors", "highlight color", err)
	}
	return render.NewComposer(style, p.fonts)
}

// probeOutputs sums per-file durations. Probe failures never fail the job;
// they only leave the total unset.
func (p *Pipeline) probeOutputs(ctx context.Context, logger *slog.Logger, outputDir string, outputs []string) *float64 {
	var total float64
	for _, name := range outputs {
		seconds, err := p.encoder.ProbeDuration(ctx, filepath.Join(outputDir, name))
		if err != nil {
			logger.Debug("duration probe failed",
				logging.String("output", name), logging.Error(err))
			return nil
		}
		total += seconds
	}
	return &total
}

// record applies a best-effort job update. A record deleted mid-run surfaces
// as not-found; the worker has nowhere left to write, so it logs and drops
// the update.
func (p *Pipeline) record(ctx context.Context, logger *slog.Logger, jobID string, fn func(*jobs.Job)) {
	if _, err := p.manager.Update(ctx, jobID, fn); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			logger.Warn("job record gone, discarding update", logging.Error(err))
			return
		}
		logger.Error("job update failed", logging.Error(err))
	}
}

// runStage logs stage boundaries around fn, the same shape for every stage.
func runStage[T any](logger *slog.Logger, stage string, fn func() (T, error)) (T, error) {
	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String(logging.FieldStage, stage))
	out, err := fn()
	if err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String(logging.FieldStage, stage),
			logging.Error(err))
		return out, err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String(logging.FieldStage, stage))
	return out, nil
}

func stem(filename string) string {
	base := filepath.Base(filename)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		base = "video"
	}
	return base
}
