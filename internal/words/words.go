package words

import (
	"regexp"
	"strings"
	"unicode"
)

// Unit is one displayable word: its token text, the 0-based rune index of
// the highlighted recognition character, and how long the frame is held.
type Unit struct {
	Token    string
	ORPIndex int
	Duration float64
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankLineRun  = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes extracted text: whitespace runs collapse to single
// spaces, remaining blank-line runs collapse to at most one blank line, and
// the ends are trimmed.
func Clean(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Tokenize splits text on whitespace boundaries, dropping empty tokens.
// Punctuation stays attached to its word and order follows reading order.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if field != "" {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// ORPIndex returns the optimal recognition point for a token: the rune index
// the eye should fixate on. The token's alphanumeric core selects a base
// position (short words highlight early letters, long words further in),
// leading punctuation shifts the position right, and the result is clamped
// into the token's bounds.
func ORPIndex(token string) int {
	runes := []rune(token)
	if len(runes) == 0 {
		return 0
	}

	coreLen := 0
	for _, r := range runes {
		if isAlphanumeric(r) {
			coreLen++
		}
	}

	orp := basePosition(coreLen)

	for _, r := range runes {
		if isAlphanumeric(r) {
			break
		}
		orp++
	}

	if max := len(runes) - 1; orp > max {
		orp = max
	}
	if orp < 0 {
		orp = 0
	}
	return orp
}

// basePosition maps core length to the Spritz-style ORP letter position.
func basePosition(length int) int {
	switch {
	case length <= 1:
		return 0
	case length <= 5:
		return 1
	case length <= 9:
		return 2
	case length <= 13:
		return 3
	default:
		return 4
	}
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
