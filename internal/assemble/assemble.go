package assemble

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"rsvpd/internal/logging"
	"rsvpd/internal/pacing"
	"rsvpd/internal/services"
	"rsvpd/internal/services/ffmpeg"
	"rsvpd/internal/words"
)

// Composer renders one frame per word unit.
type Composer interface {
	Compose(unit words.Unit, wpm int) *image.NRGBA
}

// Options controls output naming and segmentation for one assembly run.
type Options struct {
	OutputDir    string
	BaseName     string
	FPS          int
	ChunkSeconds float64
}

// Assembler turns a paced unit sequence into one or more MP4 files. Frames
// are spooled to a scratch directory per segment and fed to ffmpeg through a
// concat-demuxer list, so each word holds on screen for exactly its scheduled
// duration regardless of the output frame rate.
type Assembler struct {
	composer Composer
	encoder  ffmpeg.Encoder
	logger   *slog.Logger
}

// New constructs an assembler.
func New(composer Composer, encoder ffmpeg.Encoder, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{composer: composer, encoder: encoder, logger: logger}
}

// Assemble renders and encodes every segment, returning the ordered output
// file names (not paths). onUnit, when provided, is invoked after each frame
// is rendered with the number of units completed so far and the total.
func (a *Assembler) Assemble(ctx context.Context, units []words.Unit, opts Options, onUnit func(done, total int)) ([]string, error) {
	if len(units) == 0 {
		return nil, services.Wrap(services.ErrFormat, "assemble", "assemble", "no word units to render", nil)
	}
	if opts.OutputDir == "" {
		return nil, services.Wrap(services.ErrEncoding, "assemble", "assemble", "output directory required", nil)
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorage, "assemble", "assemble", "creating output directory", err)
	}

	chunks := pacing.Chunks(units, opts.ChunkSeconds)
	names := outputNames(opts.BaseName, len(chunks))

	done := 0
	total := len(units)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, services.Wrap(services.ErrEncoding, "assemble", "assemble", "assembly interrupted", err)
		}
		outputPath := filepath.Join(opts.OutputDir, names[i])
		a.logger.Info("encoding segment",
			logging.String("output", names[i]),
			logging.Int("segment", i+1),
			logging.Int("segments", len(chunks)),
			logging.Int("units", len(chunk)))
		if err := a.assembleSegment(ctx, chunk, outputPath, opts.FPS, func() {
			done++
			if onUnit != nil {
				onUnit(done, total)
			}
		}); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func (a *Assembler) assembleSegment(ctx context.Context, chunk []words.Unit, outputPath string, fps int, onFrame func()) error {
	scratch, err := os.MkdirTemp(filepath.Dir(outputPath), ".frames-*")
	if err != nil {
		return services.Wrap(services.ErrStorage, "assemble", "spool_frames", "creating scratch directory", err)
	}
	defer os.RemoveAll(scratch)

	listPath, err := a.spoolFrames(ctx, chunk, scratch, onFrame)
	if err != nil {
		return err
	}
	return a.encoder.EncodeConcat(ctx, listPath, outputPath, fps, func(line string) {
		a.logger.Debug("ffmpeg", logging.String("line", line))
	})
}

// spoolFrames writes one PNG per unit plus the concat list that assigns each
// frame its display duration. The demuxer ignores the duration directive on
// the final entry, so the last frame is listed twice.
func (a *Assembler) spoolFrames(ctx context.Context, chunk []words.Unit, scratch string, onFrame func()) (string, error) {
	var list strings.Builder
	var lastFrame string
	for i, unit := range chunk {
		if err := ctx.Err(); err != nil {
			return "", services.Wrap(services.ErrEncoding, "assemble", "spool_frames", "rendering interrupted", err)
		}
		frame := a.composer.Compose(unit, pacing.WPMAt(unit))
		name := fmt.Sprintf("frame_%06d.png", i)
		framePath := filepath.Join(scratch, name)
		if err := imaging.Save(frame, framePath); err != nil {
			return "", services.Wrap(services.ErrStorage, "assemble", "spool_frames",
				fmt.Sprintf("writing %s", name), err)
		}
		fmt.Fprintf(&list, "file '%s'\n", name)
		fmt.Fprintf(&list, "duration %.6f\n", unit.Duration)
		lastFrame = name
		if onFrame != nil {
			onFrame()
		}
	}
	fmt.Fprintf(&list, "file '%s'\n", lastFrame)

	listPath := filepath.Join(scratch, "frames.txt")
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return "", services.Wrap(services.ErrStorage, "assemble", "spool_frames", "writing frame list", err)
	}
	return listPath, nil
}

// outputNames returns the file names for the given segment count: a single
// segment keeps the bare stem, multiple segments get numbered part suffixes.
func outputNames(baseName string, segments int) []string {
	if segments == 1 {
		return []string{baseName + ".mp4"}
	}
	names := make([]string, segments)
	for i := range names {
		names[i] = fmt.Sprintf("%s_part%02d.mp4", baseName, i+1)
	}
	return names
}
