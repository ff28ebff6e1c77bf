package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteDocument writes a text document at path, creating parent directories.
func WriteDocument(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SampleText is a short plain document with sentence and clause punctuation,
// enough to exercise pacing without slowing tests down.
const SampleText = "Reading quickly is a skill; reading well, a habit. " +
	"Each word arrives alone, centered on its pivot letter. " +
	"Practice makes the stream feel natural!"

// WriteSampleDocument drops SampleText into dir under the given name.
func WriteSampleDocument(t testing.TB, dir, name string) string {
	t.Helper()
	return WriteDocument(t, filepath.Join(dir, name), SampleText)
}
