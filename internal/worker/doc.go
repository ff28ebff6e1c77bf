// Package worker executes the document-to-video pipeline for a claimed job:
// text extraction, tokenization, pacing, frame rendering, and video assembly,
// with progress written back through the job manager at each milestone.
package worker
