package main

import (
	"github.com/spf13/cobra"

	"rsvpd/internal/jobs"
)

// paramFlags binds every VideoParams knob to command flags, starting from
// the defaults.
type paramFlags struct {
	params jobs.VideoParams
}

func newParamFlags() *paramFlags {
	return &paramFlags{params: jobs.DefaultParams()}
}

func (p *paramFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&p.params.StartWPM, "start-wpm", p.params.StartWPM, "Starting words per minute")
	flags.IntVar(&p.params.PeakWPM, "peak-wpm", p.params.PeakWPM, "Peak words per minute after the ramp")
	flags.IntVar(&p.params.RampWords, "ramp-words", p.params.RampWords, "Words spent ramping up (0 = automatic)")
	flags.StringVar(&p.params.RampStyle, "ramp-style", p.params.RampStyle, "Ramp style: smooth, linear, or stepped")
	flags.Float64Var(&p.params.ChunkDuration, "chunk-duration", p.params.ChunkDuration, "Split output into segments of this many seconds (0 = single file)")
	flags.IntVar(&p.params.Width, "width", p.params.Width, "Video width in pixels")
	flags.IntVar(&p.params.Height, "height", p.params.Height, "Video height in pixels")
	flags.IntVar(&p.params.FontSize, "font-size", p.params.FontSize, "Word font size in pixels")
	flags.IntVar(&p.params.FPS, "fps", p.params.FPS, "Output frame rate")
	flags.StringVar(&p.params.BackgroundColor, "bg-color", p.params.BackgroundColor, "Background color (#rrggbb)")
	flags.StringVar(&p.params.TextColor, "text-color", p.params.TextColor, "Text color (#rrggbb)")
	flags.StringVar(&p.params.HighlightColor, "highlight-color", p.params.HighlightColor, "Pivot letter color (#rrggbb)")
	flags.BoolVar(&p.params.ShowWPM, "show-wpm", p.params.ShowWPM, "Show the words-per-minute readout")
	flags.BoolVar(&p.params.Preprocess, "preprocess", p.params.Preprocess, "Normalize whitespace before tokenizing")
}
