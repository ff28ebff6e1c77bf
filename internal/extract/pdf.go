package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"rsvpd/internal/services"
)

// textFromPDF extracts text page by page in page order, joining non-empty
// pages with a newline.
func textFromPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrFormat, "extract", "pdf", "open document", err)
	}
	defer file.Close()

	var parts []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", services.Wrap(services.ErrExtraction, "extract", "pdf", "read page", err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}

	return normalizeUTF8([]byte(strings.Join(parts, "\n")))
}
