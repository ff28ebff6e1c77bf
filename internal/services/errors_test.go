package services_test

import (
	"errors"
	"testing"

	"rsvpd/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrEncoding, "assemble", "encode", "ffmpeg exited", base)
	if !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("expected error to match ErrEncoding, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to be preserved, got %v", err)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrFormat, "extract", "", "unsupported extension .docx", nil)
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	want := "format error: extract: unsupported extension .docx"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapNilMarkerDefaultsToStorage(t *testing.T) {
	err := services.Wrap(nil, "jobs", "update", "record write", errors.New("disk full"))
	if !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected ErrStorage fallback, got %v", err)
	}
}

func TestMessageStripsMarkerPrefix(t *testing.T) {
	err := services.Wrap(services.ErrExtraction, "extract", "pdf", "page 3 unreadable", nil)
	got := services.Message(err)
	want := "extract: pdf: page 3 unreadable"
	if got != want {
		t.Fatalf("Message = %q, want %q", got, want)
	}
	if services.Message(nil) != "" {
		t.Fatal("Message(nil) should be empty")
	}
}
