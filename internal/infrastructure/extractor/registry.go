package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/ports"
	"github.com/kirillkom/doc-translator/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/doc-translator/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/doc-translator/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/doc-translator/internal/infrastructure/extractor/spreadsheet"
)

// capabilities names what each recognized extension needs.
var capabilities = map[string]string{
	".txt":  "plain text decoding",
	".docx": "word document extraction",
	".pdf":  "pdf text extraction",
	".xlsx": "spreadsheet extraction",
}

// Registry dispatches extraction by file extension.
type Registry struct {
	byExt map[string]ports.TextExtractor
}

// NewRegistry registers every built-in extractor except the formats listed in
// disabled (extensions with or without the leading dot).
func NewRegistry(disabled []string) *Registry {
	off := make(map[string]bool, len(disabled))
	for _, ext := range disabled {
		off[normalizeExt(ext)] = true
	}

	r := &Registry{byExt: make(map[string]ports.TextExtractor)}
	builtin := map[string]ports.TextExtractor{
		".txt":  plaintext.NewExtractor(),
		".docx": docx.NewExtractor(),
		".pdf":  pdf.NewExtractor(),
		".xlsx": spreadsheet.NewExtractor(),
	}
	for ext, ex := range builtin {
		if off[ext] {
			continue
		}
		r.Register(ext, ex)
	}
	return r
}

func (r *Registry) Register(ext string, ex ports.TextExtractor) {
	r.byExt[normalizeExt(ext)] = ex
}

func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	capability, known := capabilities[ext]
	if !known {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("unsupported file type: %q", ext))
	}
	ex, ok := r.byExt[ext]
	if !ok {
		return "", domain.WrapError(domain.ErrDependencyMissing, "extract text", fmt.Errorf("%s is not available for %q files", capability, ext))
	}

	text, err := ex.Extract(ctx, path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	return text, nil
}

// Supported lists the extensions that can currently be extracted.
func (r *Registry) Supported() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Missing lists the capabilities of recognized formats that are not available.
func (r *Registry) Missing() []string {
	var out []string
	for ext, capability := range capabilities {
		if _, ok := r.byExt[ext]; !ok {
			out = append(out, capability)
		}
	}
	sort.Strings(out)
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
