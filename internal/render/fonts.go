package render

import (
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"rsvpd/internal/logging"
)

// FontSource holds a parsed font from which faces are derived at the sizes
// frame composition needs. Resolution is best-effort: candidates that are
// missing or unparseable are skipped and the built-in face is the terminal
// fallback, so ResolveFont never fails.
type FontSource struct {
	font *opentype.Font
	path string
}

// ResolveFont tries each candidate font file in order and falls back to the
// embedded Go Bold face.
func ResolveFont(candidates []string, logger *slog.Logger) *FontSource {
	if logger == nil {
		logger = logging.NewNop()
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			logger.Debug("skipping unparseable font", logging.String("path", path), logging.Error(err))
			continue
		}
		logger.Debug("resolved font", logging.String("path", path))
		return &FontSource{font: parsed, path: path}
	}

	builtin, err := opentype.Parse(gobold.TTF)
	if err != nil {
		// The embedded face is known-good; this cannot happen at runtime.
		panic("render: embedded fallback font failed to parse: " + err.Error())
	}
	logger.Debug("using built-in font")
	return &FontSource{font: builtin}
}

// Path returns the resolved font file, or empty for the built-in face.
func (s *FontSource) Path() string { return s.path }

// Face derives a face at the given pixel size.
func (s *FontSource) Face(size float64) (font.Face, error) {
	return opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
