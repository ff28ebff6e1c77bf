package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying pipeline and storage failures. Wrap tags an
// error with one of these markers so call sites can branch with errors.Is
// without string matching.
var (
	ErrValidation    = errors.New("validation error")
	ErrFormat        = errors.New("format error")
	ErrExtraction    = errors.New("extraction error")
	ErrConfiguration = errors.New("configuration error")
	ErrEncoding      = errors.New("encoding error")
	ErrStorage       = errors.New("storage error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrStorage
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Message extracts the human-readable portion of a wrapped error, stripping
// the sentinel prefix so job records carry the detail rather than the marker.
func Message(err error) string {
	if err == nil {
		return ""
	}
	text := strings.TrimSpace(err.Error())
	for _, marker := range []error{
		ErrValidation, ErrFormat, ErrExtraction, ErrConfiguration,
		ErrEncoding, ErrStorage, ErrNotFound, ErrConflict,
	} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(text, prefix) {
			return strings.TrimPrefix(text, prefix)
		}
	}
	return text
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
