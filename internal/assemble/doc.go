// Package assemble spools rendered word frames to disk and drives ffmpeg to
// encode them into MP4 segments, splitting long documents at the configured
// segment duration without ever cutting a word in half.
package assemble
