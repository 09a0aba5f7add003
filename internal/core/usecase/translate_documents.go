package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/ports"
)

const (
	defaultDetectSampleChars = 2000
	translatedSuffix         = ".translated.txt"
)

type TranslateDocumentsOptions struct {
	DefaultDirection  domain.Direction
	DetectSampleChars int
	Observer          ports.TranslationObserver
	Logger            *slog.Logger
}

type TranslateDocumentsUseCase struct {
	extractor  ports.TextExtractor
	directions ports.DirectionResolver
	translator ports.TextTranslator
	writer     ports.OutputWriter

	observer ports.TranslationObserver
	logger   *slog.Logger
}

func NewTranslateDocumentsUseCase(
	extractor ports.TextExtractor,
	detector ports.DirectionDetector,
	translator ports.TextTranslator,
	writer ports.OutputWriter,
	opts TranslateDocumentsOptions,
) *TranslateDocumentsUseCase {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslateDocumentsUseCase{
		extractor:  extractor,
		directions: NewDetectDirectionUseCase(detector, opts.DefaultDirection, opts.DetectSampleChars),
		translator: translator,
		writer:     writer,
		observer:   observerOrNoop(opts.Observer),
		logger:     logger,
	}
}

// TranslateDocuments processes inputs in order. The first failure stops the
// batch; outputs written before it are returned together with the error.
func (uc *TranslateDocumentsUseCase) TranslateDocuments(
	ctx context.Context,
	req domain.BatchRequest,
) ([]domain.TranslationResult, error) {
	mode := req.Mode
	if mode == "" {
		mode = domain.Mode(domain.ModeAuto)
	}
	if _, ok := mode.Direction(); !ok && !mode.IsAuto() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "translate documents", fmt.Errorf("unknown mode %q", req.Mode))
	}

	outputDir := ""
	if strings.TrimSpace(req.OutputDir) != "" {
		abs, err := filepath.Abs(req.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("resolve output dir: %w", err)
		}
		outputDir = abs
	}

	results := make([]domain.TranslationResult, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := uc.translateOne(ctx, input, mode, outputDir, req.Model)
		if err != nil {
			return results, fmt.Errorf("translate %s: %w", filepath.Base(input), err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (uc *TranslateDocumentsUseCase) translateOne(
	ctx context.Context,
	input string,
	mode domain.Mode,
	outputDir string,
	model string,
) (result domain.TranslationResult, err error) {
	start := time.Now()
	uc.observer.StartDocument()
	var direction domain.Direction
	defer func() {
		uc.observer.FinishDocument(direction, time.Since(start), err)
	}()

	source, err := filepath.Abs(input)
	if err != nil {
		return domain.TranslationResult{}, fmt.Errorf("resolve input path: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, source)
	if err != nil {
		return domain.TranslationResult{}, err
	}
	doc := domain.Document{SourcePath: source, Text: text}

	direction = uc.directions.Resolve(mode, doc.Text)
	doc.Direction = direction

	translated, err := uc.translator.Translate(ctx, doc.Text, doc.Direction, model)
	if err != nil {
		return domain.TranslationResult{}, err
	}

	output := OutputPath(doc.SourcePath, doc.Direction, outputDir)
	if err := uc.writer.WriteText(ctx, output, translated); err != nil {
		return domain.TranslationResult{}, fmt.Errorf("write output: %w", err)
	}

	uc.logger.Info("document_translated",
		"source", doc.SourcePath,
		"output", output,
		"direction", doc.Direction.String(),
		"input_chars", len([]rune(doc.Text)),
		"output_chars", len([]rune(translated)),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)

	return domain.TranslationResult{
		SourcePath: doc.SourcePath,
		OutputPath: output,
		Direction:  doc.Direction,
	}, nil
}

// OutputPath names the translation of source as
// <stem>.<direction>.translated.txt, placed in outputDir or next to source.
func OutputPath(source string, direction domain.Direction, outputDir string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, stem+"."+direction.String()+translatedSuffix)
}
