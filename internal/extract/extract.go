package extract

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"rsvpd/internal/services"
)

// SupportedExtensions lists the document extensions the extractor accepts,
// lowercase with leading dot.
var SupportedExtensions = []string{".txt", ".pdf", ".epub"}

// Supported reports whether the filename's extension can be extracted.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range SupportedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Text extracts normalized UTF-8 text from the document at path, dispatching
// on the file extension. It is a pure function of the file contents; no
// state is retained across calls.
func Text(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		return textFromPlain(path)
	case ".pdf":
		return textFromPDF(path)
	case ".epub":
		return textFromEPUB(path)
	default:
		return "", services.Wrap(services.ErrFormat, "extract", "", "unsupported extension "+ext, nil)
	}
}

func textFromPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, "extract", "txt", "read file", err)
	}
	return normalizeUTF8(data)
}

// normalizeUTF8 strips a UTF-8 BOM if present, replaces invalid byte
// sequences, and applies NFC normalization.
func normalizeUTF8(data []byte) (string, error) {
	decoder := unicode.UTF8BOM.NewDecoder()
	out, _, err := transform.Bytes(transform.Chain(decoder, norm.NFC), data)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, "extract", "decode", "normalize text", err)
	}
	return string(out), nil
}
