package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

// TextExtractor extracts plain text from a file on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Chunker splits text into ordered, overlapping chunks.
type Chunker interface {
	Split(text string) []string
}

// DirectionDetector guesses a translation direction from a text sample.
type DirectionDetector interface {
	Detect(sample string, fallback domain.Direction) domain.Direction
}

// CompletionBackend is the remote translation service.
type CompletionBackend interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
	Stream(ctx context.Context, req domain.CompletionRequest, onDelta func(string) error) error
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Path(key string) string
}

// OutputWriter persists translated text. Implementations must not leave a
// partially written file behind on failure.
type OutputWriter interface {
	WriteText(ctx context.Context, path, text string) error
}

// TranslationObserver receives pipeline measurements.
type TranslationObserver interface {
	StartDocument()
	FinishDocument(direction domain.Direction, duration time.Duration, err error)
	ObserveChunks(count int)
	ObserveRemoteCall(operation string, duration time.Duration, err error)
}
