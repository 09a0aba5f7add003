package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/ports"
)

type UploadUseCase struct {
	storage   ports.ObjectStorage
	pipeline  ports.DocumentTranslator
	outputDir string
}

func NewUploadUseCase(
	storage ports.ObjectStorage,
	pipeline ports.DocumentTranslator,
	outputDir string,
) *UploadUseCase {
	return &UploadUseCase{
		storage:   storage,
		pipeline:  pipeline,
		outputDir: outputDir,
	}
}

// Upload stores every named file under a collision-free key and translates
// the stored copies into the output directory.
func (uc *UploadUseCase) Upload(
	ctx context.Context,
	files []domain.UploadedFile,
	mode domain.Mode,
) ([]domain.TranslationResult, error) {
	if _, ok := mode.Direction(); !ok && !mode.IsAuto() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", fmt.Errorf("unknown mode %q", mode))
	}

	inputs := make([]string, 0, len(files))
	for _, file := range files {
		if strings.TrimSpace(file.Filename) == "" || file.Body == nil {
			continue
		}
		key := storageKey(file.Filename)
		if err := uc.storage.Save(ctx, key, file.Body); err != nil {
			return nil, fmt.Errorf("save upload %s: %w", file.Filename, err)
		}
		inputs = append(inputs, uc.storage.Path(key))
	}
	if len(inputs) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", fmt.Errorf("no files uploaded"))
	}

	return uc.pipeline.TranslateDocuments(ctx, domain.BatchRequest{
		Inputs:    inputs,
		Mode:      mode,
		OutputDir: uc.outputDir,
	})
}

func storageKey(filename string) string {
	return uuid.NewString()[:8] + "__" + sanitizeFilename(filename)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.txt"
	}
	return base
}
