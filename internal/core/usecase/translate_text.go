package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/ports"
)

type TranslateTextOptions struct {
	// DefaultModel is used when a call does not name a model.
	DefaultModel string
	// StreamChunked splits streamed text the same way as synchronous
	// translation. When false the whole text goes out in one session.
	StreamChunked bool
	Observer      ports.TranslationObserver
}

type TranslateTextUseCase struct {
	backend       ports.CompletionBackend
	chunker       ports.Chunker
	defaultModel  string
	streamChunked bool
	observer      ports.TranslationObserver
}

func NewTranslateTextUseCase(
	backend ports.CompletionBackend,
	chunker ports.Chunker,
	opts TranslateTextOptions,
) *TranslateTextUseCase {
	return &TranslateTextUseCase{
		backend:       backend,
		chunker:       chunker,
		defaultModel:  strings.TrimSpace(opts.DefaultModel),
		streamChunked: opts.StreamChunked,
		observer:      observerOrNoop(opts.Observer),
	}
}

// Translate translates text chunk by chunk and joins the trimmed outputs
// with newlines. Blank chunks are skipped and cost no remote call.
func (uc *TranslateTextUseCase) Translate(
	ctx context.Context,
	text string,
	direction domain.Direction,
	model string,
) (string, error) {
	if !direction.Valid() {
		return "", domain.WrapError(domain.ErrInvalidInput, "translate text", fmt.Errorf("unknown direction %q", direction))
	}
	if text == "" {
		return "", nil
	}
	model = uc.resolveModel(model)

	chunks := uc.chunker.Split(text)
	uc.observer.ObserveChunks(len(chunks))

	outputs := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		start := time.Now()
		out, err := uc.backend.Complete(ctx, buildTranslationRequest(model, direction, chunk))
		uc.observer.ObserveRemoteCall("complete", time.Since(start), err)
		if err != nil {
			return "", fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		outputs = append(outputs, strings.TrimSpace(out))
	}
	return strings.Join(outputs, "\n"), nil
}

// Stream emits translated fragments as they arrive. In chunked mode a
// newline is emitted between the outputs of consecutive chunks.
func (uc *TranslateTextUseCase) Stream(
	ctx context.Context,
	text string,
	direction domain.Direction,
	model string,
	emit func(string) error,
) error {
	if !direction.Valid() {
		return domain.WrapError(domain.ErrInvalidInput, "stream text", fmt.Errorf("unknown direction %q", direction))
	}
	if emit == nil {
		return fmt.Errorf("stream text: emit callback is nil")
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	model = uc.resolveModel(model)

	if !uc.streamChunked {
		return uc.streamSession(ctx, model, direction, text, emit)
	}

	chunks := uc.chunker.Split(text)
	uc.observer.ObserveChunks(len(chunks))

	emitted := 0
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if emitted > 0 {
			if err := emit("\n"); err != nil {
				return err
			}
		}
		if err := uc.streamSession(ctx, model, direction, chunk, emit); err != nil {
			return fmt.Errorf("stream chunk %d/%d: %w", i+1, len(chunks), err)
		}
		emitted++
	}
	return nil
}

func (uc *TranslateTextUseCase) streamSession(
	ctx context.Context,
	model string,
	direction domain.Direction,
	text string,
	emit func(string) error,
) error {
	start := time.Now()
	err := uc.backend.Stream(ctx, buildTranslationRequest(model, direction, text), emit)
	uc.observer.ObserveRemoteCall("stream", time.Since(start), err)
	return err
}

func (uc *TranslateTextUseCase) resolveModel(model string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return uc.defaultModel
}
