package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")
	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hello", String("job_id", "abc123"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"job_id":"abc123"`) {
		t.Fatalf("expected structured attr in output, got %s", data)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("expected msg key in output, got %s", data)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	for _, value := range []string{"", "INFO", "bogus"} {
		if got := parseLevel(value); got.String() != "INFO" {
			t.Fatalf("parseLevel(%q) = %v, want INFO", value, got)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic or emit.
	logger.Error("discarded", Error(nil))
}
