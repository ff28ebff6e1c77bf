// Package render composes single-word video frames. Each frame shows one
// token with its pivot letter highlighted and pinned to the horizontal center
// of the canvas, flanked by fixed guide marks and an optional words-per-minute
// readout.
package render
