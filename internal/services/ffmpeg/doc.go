// Package ffmpeg wraps the ffmpeg and ffprobe command line tools for frame
// sequence encoding and output duration probing.
package ffmpeg
