package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"rsvpd/internal/services"
)

// Encoder defines the behaviour required by the assembly stage.
type Encoder interface {
	EncodeConcat(ctx context.Context, listPath, outputPath string, fps int, onProgress func(string)) error
	ProbeDuration(ctx context.Context, videoPath string) (float64, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithProbeBinary overrides the ffprobe binary path.
func WithProbeBinary(binary string) Option {
	return func(c *Client) {
		if strings.TrimSpace(binary) != "" {
			c.probeBinary = strings.TrimSpace(binary)
		}
	}
}

// Client wraps ffmpeg and ffprobe CLI interactions.
type Client struct {
	binary        string
	probeBinary   string
	encodeTimeout time.Duration
	exec          Executor
}

// New constructs an ffmpeg client. The binary must be present on PATH (or be
// an absolute path) or construction fails.
func New(binary string, encodeTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	client := &Client{
		binary:        binary,
		probeBinary:   "ffprobe",
		encodeTimeout: time.Duration(encodeTimeoutSeconds) * time.Second,
		exec:          commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	if _, builtin := client.exec.(commandExecutor); builtin {
		if _, err := exec.LookPath(client.binary); err != nil {
			return nil, services.Wrap(services.ErrEncoding, "assemble", "locate_ffmpeg",
				fmt.Sprintf("ffmpeg binary %q not found", client.binary), err)
		}
	}
	return client, nil
}

// EncodeConcat encodes the frames listed in a concat-demuxer file into an
// H.264 MP4. Each progress line ffmpeg emits on stderr is forwarded to
// onProgress when provided.
func (c *Client) EncodeConcat(ctx context.Context, listPath, outputPath string, fps int, onProgress func(string)) error {
	if listPath == "" {
		return services.Wrap(services.ErrEncoding, "assemble", "encode", "frame list path required", nil)
	}
	if outputPath == "" {
		return services.Wrap(services.ErrEncoding, "assemble", "encode", "output path required", nil)
	}
	if fps <= 0 {
		fps = 30
	}

	encodeCtx := ctx
	if c.encodeTimeout > 0 {
		var cancel context.CancelFunc
		encodeCtx, cancel = context.WithTimeout(ctx, c.encodeTimeout)
		defer cancel()
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-r", strconv.Itoa(fps),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-an",
		outputPath,
	}
	if err := c.exec.Run(encodeCtx, c.binary, args, onProgress); err != nil {
		return services.Wrap(services.ErrEncoding, "assemble", "encode",
			fmt.Sprintf("encoding %s", outputPath), err)
	}
	return nil
}

// ProbeDuration reads the container duration of an encoded video in seconds.
func (c *Client) ProbeDuration(ctx context.Context, videoPath string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	}
	var lines []string
	if err := c.exec.Run(ctx, c.probeBinary, args, func(line string) {
		lines = append(lines, strings.TrimSpace(line))
	}); err != nil {
		return 0, services.Wrap(services.ErrEncoding, "assemble", "probe_duration",
			fmt.Sprintf("probing %s", videoPath), err)
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		seconds, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		return seconds, nil
	}
	return 0, services.Wrap(services.ErrEncoding, "assemble", "probe_duration",
		fmt.Sprintf("no duration reported for %s", videoPath), errors.New("empty ffprobe output"))
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	forward := func(line string) {
		if onStdout != nil {
			onStdout(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, forward)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
