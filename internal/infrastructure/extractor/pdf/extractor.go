package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns per-page text in page order separated by blank lines.
// Pages that yield no text contribute an empty string.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for pageNr := 1; pageNr <= total; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pages = append(pages, pageText(reader, pageNr, path))
	}
	return joinPages(pages), nil
}

func pageText(reader *pdf.Reader, pageNr int, path string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("pdf_page_extract_panic", "path", path, "page", pageNr, "panic", r)
			text = ""
		}
	}()

	page := reader.Page(pageNr)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		slog.Debug("pdf_page_extract_failed", "path", path, "page", pageNr, "error", err)
		return ""
	}
	return text
}

func joinPages(pages []string) string {
	return strings.Join(pages, "\n\n")
}
