package pacing

import (
	"math"
	"strings"

	"rsvpd/internal/services"
)

// Ramp styles controlling how wpm accelerates from start to peak.
const (
	RampSmooth  = "smooth"
	RampLinear  = "linear"
	RampStepped = "stepped"
)

const steppedRampSteps = 6

// DefaultRampWords returns the ramp length used when none is requested:
// 10% of the document, with a floor of 20 words.
func DefaultRampWords(totalWords int) int {
	ramp := int(math.Round(0.1 * float64(totalWords)))
	if ramp < 20 {
		ramp = 20
	}
	return ramp
}

// Schedule produces one wpm value per word, ramping from startWPM to peakWPM
// over rampWords and holding peakWPM after. rampWords <= 0 selects the
// default ramp; a ramp longer than the document is clamped to it.
func Schedule(startWPM, peakWPM float64, totalWords, rampWords int, style string) ([]float64, error) {
	if totalWords <= 1 {
		return []float64{startWPM}, nil
	}

	if rampWords <= 0 {
		rampWords = DefaultRampWords(totalWords)
	}
	if rampWords > totalWords {
		rampWords = totalWords
	}

	schedule := make([]float64, totalWords)

	switch strings.ToLower(strings.TrimSpace(style)) {
	case RampSmooth:
		for i := range schedule {
			if i < rampWords {
				progress := float64(i) / float64(rampWords)
				eased := (1 - math.Cos(progress*math.Pi)) / 2
				schedule[i] = startWPM + (peakWPM-startWPM)*eased
			} else {
				schedule[i] = peakWPM
			}
		}

	case RampLinear:
		for i := range schedule {
			if i < rampWords {
				progress := float64(i) / float64(rampWords)
				schedule[i] = startWPM + (peakWPM-startWPM)*progress
			} else {
				schedule[i] = peakWPM
			}
		}

	case RampStepped:
		wordsPerStep := rampWords / steppedRampSteps
		if wordsPerStep < 1 {
			wordsPerStep = 1
		}
		wpmStep := (peakWPM - startWPM) / steppedRampSteps
		for i := range schedule {
			if i < rampWords {
				step := i / wordsPerStep
				if step > steppedRampSteps {
					step = steppedRampSteps
				}
				schedule[i] = startWPM + wpmStep*float64(step)
			} else {
				schedule[i] = peakWPM
			}
		}

	default:
		return nil, services.Wrap(services.ErrConfiguration, "pacing", "", "unknown ramp style "+style, nil)
	}

	return schedule, nil
}
