package pacing_test

import (
	"errors"
	"math"
	"testing"

	"rsvpd/internal/pacing"
	"rsvpd/internal/services"
)

func TestScheduleLinearScenario(t *testing.T) {
	schedule, err := pacing.Schedule(200, 600, 100, 20, pacing.RampLinear)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(schedule) != 100 {
		t.Fatalf("expected 100 entries, got %d", len(schedule))
	}
	if schedule[0] != 200 {
		t.Fatalf("wpm[0] = %v, want 200", schedule[0])
	}
	if schedule[10] != 400 {
		t.Fatalf("wpm[10] = %v, want 400", schedule[10])
	}
	for i := 20; i < 100; i++ {
		if schedule[i] != 600 {
			t.Fatalf("wpm[%d] = %v, want 600", i, schedule[i])
		}
	}
}

func TestScheduleNonDecreasing(t *testing.T) {
	for _, style := range []string{pacing.RampSmooth, pacing.RampLinear, pacing.RampStepped} {
		schedule, err := pacing.Schedule(150, 700, 80, 30, style)
		if err != nil {
			t.Fatalf("Schedule(%s) failed: %v", style, err)
		}
		for i := 1; i < len(schedule); i++ {
			if schedule[i] < schedule[i-1] {
				t.Fatalf("%s schedule decreases at %d: %v -> %v", style, i, schedule[i-1], schedule[i])
			}
		}
		for i := 30; i < len(schedule); i++ {
			if schedule[i] != 700 {
				t.Fatalf("%s wpm[%d] = %v, want peak", style, i, schedule[i])
			}
		}
	}
}

func TestScheduleSingleWord(t *testing.T) {
	for _, total := range []int{0, 1} {
		schedule, err := pacing.Schedule(200, 600, total, 0, pacing.RampSmooth)
		if err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
		if len(schedule) != 1 || schedule[0] != 200 {
			t.Fatalf("total=%d schedule = %v, want [200]", total, schedule)
		}
	}
}

func TestScheduleClampsRampToTotal(t *testing.T) {
	schedule, err := pacing.Schedule(100, 500, 10, 50, pacing.RampLinear)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	// Ramp covers the whole document; the final word has not yet reached peak.
	if schedule[9] >= 500 {
		t.Fatalf("wpm[9] = %v, expected below peak with clamped ramp", schedule[9])
	}
	if schedule[0] != 100 {
		t.Fatalf("wpm[0] = %v, want start", schedule[0])
	}
}

func TestScheduleSmoothEndpoints(t *testing.T) {
	schedule, err := pacing.Schedule(200, 600, 40, 20, pacing.RampSmooth)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if schedule[0] != 200 {
		t.Fatalf("wpm[0] = %v, want 200", schedule[0])
	}
	// Cosine easing midpoint is the arithmetic mean.
	if math.Abs(schedule[10]-400) > 1e-9 {
		t.Fatalf("wpm[10] = %v, want 400", schedule[10])
	}
}

func TestScheduleSteppedCapsAtPeak(t *testing.T) {
	schedule, err := pacing.Schedule(100, 700, 60, 12, pacing.RampStepped)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	for i, wpm := range schedule {
		if wpm > 700 {
			t.Fatalf("wpm[%d] = %v exceeds peak", i, wpm)
		}
	}
	if schedule[0] != 100 {
		t.Fatalf("wpm[0] = %v, want start", schedule[0])
	}
}

func TestScheduleUnknownStyle(t *testing.T) {
	_, err := pacing.Schedule(200, 600, 10, 5, "bouncy")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestDefaultRampWords(t *testing.T) {
	cases := map[int]int{10: 20, 100: 20, 500: 50, 1000: 100, 1005: 101}
	for total, want := range cases {
		if got := pacing.DefaultRampWords(total); got != want {
			t.Errorf("DefaultRampWords(%d) = %d, want %d", total, got, want)
		}
	}
}
