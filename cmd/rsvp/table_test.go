package main

import (
	"strings"
	"testing"
	"time"

	"rsvpd/internal/jobs"
)

func TestRenderTableIncludesHeadersAndRows(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Status"},
		[][]string{{"a1b2c3d4", "completed"}, {"deadbeef", "failed"}},
		[]columnAlignment{alignLeft, alignLeft},
	)
	for _, want := range []string{"ID", "Status", "a1b2c3d4", "deadbeef"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil, nil); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestJobSummaryRow(t *testing.T) {
	job := &jobs.Job{
		ID:              "a1b2c3d4",
		Status:          jobs.StatusProcessing,
		Filename:        "essay.epub",
		ProgressPercent: 42,
		CurrentStep:     "Generating video frames",
		CreatedAt:       time.Now().UTC(),
	}
	row := jobSummaryRow(job)
	if row[0] != "a1b2c3d4" || row[1] != "processing" || row[3] != "42%" {
		t.Errorf("row = %v", row)
	}
}
