package jobs

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"rsvpd/internal/pacing"
	"rsvpd/internal/services"
)

// Status represents the lifecycle of a job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// IsTerminal reports whether a job in this status will never change again.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// VideoParams captures the rendering and pacing knobs fixed at submission.
type VideoParams struct {
	StartWPM        int     `json:"start_wpm"`
	PeakWPM         int     `json:"peak_wpm"`
	RampWords       int     `json:"ramp_words,omitempty"`
	RampStyle       string  `json:"ramp_style"`
	ChunkDuration   float64 `json:"chunk_duration,omitempty"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FontSize        int     `json:"font_size"`
	FPS             int     `json:"fps"`
	BackgroundColor string  `json:"background_color"`
	TextColor       string  `json:"text_color"`
	HighlightColor  string  `json:"highlight_color"`
	ShowWPM         bool    `json:"show_wpm"`
	Preprocess      bool    `json:"preprocess"`
}

// DefaultParams returns the parameter set used when the caller specifies
// nothing.
func DefaultParams() VideoParams {
	return VideoParams{
		StartWPM:        200,
		PeakWPM:         600,
		RampStyle:       pacing.RampSmooth,
		Width:           1920,
		Height:          1080,
		FontSize:        120,
		FPS:             30,
		BackgroundColor: "#1a1a2e",
		TextColor:       "#ffffff",
		HighlightColor:  "#ff0000",
		ShowWPM:         true,
		Preprocess:      true,
	}
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks every field against its accepted range. RampWords and
// ChunkDuration are optional and skip range checks when zero.
func (p VideoParams) Validate() error {
	var issues []string

	checkRange := func(name string, value, min, max int) {
		if value < min || value > max {
			issues = append(issues, fmt.Sprintf("%s must be between %d and %d, got %d", name, min, max, value))
		}
	}

	checkRange("start_wpm", p.StartWPM, 50, 1000)
	checkRange("peak_wpm", p.PeakWPM, 100, 2000)
	if p.PeakWPM < p.StartWPM {
		issues = append(issues, fmt.Sprintf("peak_wpm (%d) must not be below start_wpm (%d)", p.PeakWPM, p.StartWPM))
	}
	if p.RampWords != 0 {
		checkRange("ramp_words", p.RampWords, 10, 500)
	}
	switch p.RampStyle {
	case pacing.RampSmooth, pacing.RampLinear, pacing.RampStepped:
	default:
		issues = append(issues, fmt.Sprintf("ramp_style must be smooth, linear, or stepped, got %q", p.RampStyle))
	}
	if p.ChunkDuration != 0 && (p.ChunkDuration < 5 || p.ChunkDuration > 300) {
		issues = append(issues, fmt.Sprintf("chunk_duration must be between 5 and 300 seconds, got %g", p.ChunkDuration))
	}
	checkRange("width", p.Width, 640, 3840)
	checkRange("height", p.Height, 480, 2160)
	checkRange("font_size", p.FontSize, 24, 300)
	checkRange("fps", p.FPS, 15, 60)
	for name, value := range map[string]string{
		"background_color": p.BackgroundColor,
		"text_color":       p.TextColor,
		"highlight_color":  p.HighlightColor,
	} {
		if !hexColorPattern.MatchString(value) {
			issues = append(issues, fmt.Sprintf("%s must be a #rrggbb color, got %q", name, value))
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return services.Wrap(services.ErrValidation, "jobs", "validate_params",
		strings.Join(issues, "; "), nil)
}

// Job is the persisted record for one submitted document. It is owned by the
// Manager and mutated only through whole-record read-modify-write cycles
// under the job's lock.
type Job struct {
	ID                   string      `json:"id"`
	Status               Status      `json:"status"`
	Filename             string      `json:"filename"`
	UploadPath           string      `json:"upload_path"`
	Params               VideoParams `json:"params"`
	CreatedAt            time.Time   `json:"created_at"`
	StartedAt            *time.Time  `json:"started_at,omitempty"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty"`
	ProgressPercent      float64     `json:"progress_percent"`
	CurrentStep          string      `json:"current_step"`
	TotalWords           int         `json:"total_words"`
	ProcessedWords       int         `json:"processed_words"`
	OutputFiles          []string    `json:"output_files,omitempty"`
	ErrorMessage         string      `json:"error_message,omitempty"`
	VideoDurationSeconds *float64    `json:"video_duration_seconds,omitempty"`
}

// Clone returns a deep copy, so callers can hand records out without
// exposing manager-owned state to mutation.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	dup := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		dup.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		dup.CompletedAt = &t
	}
	if j.VideoDurationSeconds != nil {
		v := *j.VideoDurationSeconds
		dup.VideoDurationSeconds = &v
	}
	if j.OutputFiles != nil {
		dup.OutputFiles = append([]string(nil), j.OutputFiles...)
	}
	return &dup
}

// NewJobID returns a short opaque identifier: the first eight hex characters
// of a random UUID.
func NewJobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
