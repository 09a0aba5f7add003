package ports

import (
	"context"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

// TextTranslator is the inbound contract for synchronous text translation.
type TextTranslator interface {
	Translate(ctx context.Context, text string, direction domain.Direction, model string) (string, error)
}

// TextStreamer is the inbound contract for incremental text translation.
// emit is called with each text fragment in arrival order.
type TextStreamer interface {
	Stream(ctx context.Context, text string, direction domain.Direction, model string, emit func(string) error) error
}

// DocumentTranslator is the inbound contract for the document pipeline.
type DocumentTranslator interface {
	TranslateDocuments(ctx context.Context, req domain.BatchRequest) ([]domain.TranslationResult, error)
}

// UploadService is the inbound contract for the upload endpoint.
type UploadService interface {
	Upload(ctx context.Context, files []domain.UploadedFile, mode domain.Mode) ([]domain.TranslationResult, error)
}

// DirectionResolver picks the translation direction for a text.
type DirectionResolver interface {
	Detect(text string) domain.Direction
	Resolve(mode domain.Mode, text string) domain.Direction
}
