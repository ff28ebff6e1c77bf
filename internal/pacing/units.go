package pacing

import (
	"math"
	"strings"

	"rsvpd/internal/words"
)

// Punctuation pause multipliers. Containment anywhere in the token counts,
// not just a trailing mark: quoted or bracketed sentence ends still pause.
const (
	sentenceMarks      = ".!?"
	clauseMarks        = ",;:"
	sentencePauseScale = 1.5
	clausePauseScale   = 1.2
)

// HoldSeconds converts a token's scheduled wpm into its display duration,
// lengthening the hold for sentence-ending and clause-separating marks.
func HoldSeconds(token string, wpm float64) float64 {
	duration := 60.0 / wpm
	switch {
	case strings.ContainsAny(token, sentenceMarks):
		duration *= sentencePauseScale
	case strings.ContainsAny(token, clauseMarks):
		duration *= clausePauseScale
	}
	return duration
}

// BuildUnits pairs every token with its recognition point and display
// duration according to the wpm schedule.
func BuildUnits(tokens []string, startWPM, peakWPM float64, rampWords int, style string) ([]words.Unit, error) {
	schedule, err := Schedule(startWPM, peakWPM, len(tokens), rampWords, style)
	if err != nil {
		return nil, err
	}

	units := make([]words.Unit, len(tokens))
	for i, token := range tokens {
		wpm := schedule[len(schedule)-1]
		if i < len(schedule) {
			wpm = schedule[i]
		}
		units[i] = words.Unit{
			Token:    token,
			ORPIndex: words.ORPIndex(token),
			Duration: HoldSeconds(token, wpm),
		}
	}
	return units, nil
}

// WPMAt recovers the integer wpm shown on screen for a unit's duration,
// undoing the punctuation pause scaling.
func WPMAt(unit words.Unit) int {
	duration := unit.Duration
	switch {
	case strings.ContainsAny(unit.Token, sentenceMarks):
		duration /= sentencePauseScale
	case strings.ContainsAny(unit.Token, clauseMarks):
		duration /= clausePauseScale
	}
	if duration <= 0 {
		return 0
	}
	return int(math.Round(60.0 / duration))
}

// Chunks partitions units into maximal contiguous runs whose cumulative
// duration does not exceed maxSeconds. Every unit lands in exactly one
// chunk and chunk boundaries never split a word; a single unit longer than
// maxSeconds forms its own chunk.
func Chunks(units []words.Unit, maxSeconds float64) [][]words.Unit {
	if len(units) == 0 {
		return nil
	}
	if maxSeconds <= 0 {
		return [][]words.Unit{units}
	}

	var chunks [][]words.Unit
	start := 0
	elapsed := 0.0
	for i, unit := range units {
		if i > start && elapsed+unit.Duration > maxSeconds {
			chunks = append(chunks, units[start:i])
			start = i
			elapsed = 0
		}
		elapsed += unit.Duration
	}
	chunks = append(chunks, units[start:])
	return chunks
}

// TotalDuration sums the display durations of a unit sequence.
func TotalDuration(units []words.Unit) float64 {
	total := 0.0
	for _, unit := range units {
		total += unit.Duration
	}
	return total
}
