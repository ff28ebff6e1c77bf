package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rsvpd/internal/services"
)

type fakeExecutor struct {
	calls  [][]string
	stdout map[string][]string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, onStdout func(string)) error {
	f.calls = append(f.calls, append([]string{binary}, args...))
	if f.err != nil {
		return f.err
	}
	if onStdout != nil {
		for _, line := range f.stdout[binary] {
			onStdout(line)
		}
	}
	return nil
}

func TestEncodeConcatBuildsConcatCommand(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := New("ffmpeg", 0, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := client.EncodeConcat(context.Background(), "/tmp/frames.txt", "/tmp/out.mp4", 24, nil); err != nil {
		t.Fatalf("EncodeConcat: %v", err)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("expected 1 command, got %d", len(exec.calls))
	}
	cmd := strings.Join(exec.calls[0], " ")
	for _, want := range []string{
		"ffmpeg", "-f concat", "-safe 0", "-i /tmp/frames.txt",
		"-r 24", "-c:v libx264", "-pix_fmt yuv420p", "-an", "/tmp/out.mp4",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command %q missing %q", cmd, want)
		}
	}
}

func TestEncodeConcatWrapsEncoderFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("exit status 1")}
	client, err := New("ffmpeg", 0, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = client.EncodeConcat(context.Background(), "/tmp/frames.txt", "/tmp/out.mp4", 30, nil)
	if !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestEncodeConcatRequiresPaths(t *testing.T) {
	client, err := New("ffmpeg", 0, WithExecutor(&fakeExecutor{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.EncodeConcat(context.Background(), "", "/tmp/out.mp4", 30, nil); !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("expected ErrEncoding for missing list, got %v", err)
	}
	if err := client.EncodeConcat(context.Background(), "/tmp/frames.txt", "", 30, nil); !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("expected ErrEncoding for missing output, got %v", err)
	}
}

func TestProbeDurationParsesOutput(t *testing.T) {
	exec := &fakeExecutor{stdout: map[string][]string{
		"ffprobe": {"", "12.480000"},
	}}
	client, err := New("ffmpeg", 0, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seconds, err := client.ProbeDuration(context.Background(), "/tmp/out.mp4")
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if seconds != 12.48 {
		t.Fatalf("seconds = %v, want 12.48", seconds)
	}
}

func TestProbeDurationEmptyOutput(t *testing.T) {
	client, err := New("ffmpeg", 0, WithExecutor(&fakeExecutor{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.ProbeDuration(context.Background(), "/tmp/out.mp4"); !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestNewRejectsMissingBinary(t *testing.T) {
	if _, err := New("definitely-not-a-real-ffmpeg-binary", 0); !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}
