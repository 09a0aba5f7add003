package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/doc-translator/internal/config"
	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/usecase"
	"github.com/kirillkom/doc-translator/internal/infrastructure/chunking"
	"github.com/kirillkom/doc-translator/internal/infrastructure/extractor"
	"github.com/kirillkom/doc-translator/internal/infrastructure/langdetect"
	"github.com/kirillkom/doc-translator/internal/infrastructure/llm/openai"
	"github.com/kirillkom/doc-translator/internal/infrastructure/resilience"
	"github.com/kirillkom/doc-translator/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/doc-translator/internal/observability/metrics"
)

const serviceName = "doctranslate"

type App struct {
	Config config.Config
	Logger *slog.Logger

	Storage          *localfs.Storage
	Extractor        *extractor.Registry
	OutputDir        string
	DefaultDirection domain.Direction

	TextUC      *usecase.TranslateTextUseCase
	DocumentsUC *usecase.TranslateDocumentsUseCase
	UploadUC    *usecase.UploadUseCase
	DirectionUC *usecase.DetectDirectionUseCase

	HTTPMetrics *metrics.HTTPServerMetrics
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	defaultDirection, err := domain.ParseDirection(cfg.TranslationDefaultDirection)
	if err != nil {
		return nil, fmt.Errorf("TRANSLATION_DEFAULT_DIRECTION: %w", err)
	}

	storage, err := localfs.New(cfg.UploadPath)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}
	outputs, err := localfs.New(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("init output dir: %w", err)
	}

	registry := extractor.NewRegistry(cfg.ExtractorDisabledFormats)
	logger.Info("extractor_capabilities",
		"supported", registry.Supported(),
		"missing", registry.Missing(),
	)

	executor := resilience.NewExecutor(resilienceConfig(cfg), logger)
	client := openai.New(openai.Options{
		APIKey:   cfg.OpenAIAPIKey,
		BaseURL:  cfg.OpenAIBaseURL,
		Model:    cfg.OpenAIModel,
		Timeout:  time.Duration(cfg.OpenAITimeoutSeconds) * time.Second,
		Executor: executor,
	})
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("openai_api_key_missing", "effect", "translation requests will fail with a configuration error")
	}

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	observer := metrics.NewTranslationMetrics(serviceName, httpMetrics.Registry())

	detector := langdetect.NewHeuristic()
	textUC := usecase.NewTranslateTextUseCase(
		client,
		chunking.NewSplitter(cfg.TranslationMaxChars, cfg.TranslationChunkOverlap),
		usecase.TranslateTextOptions{
			DefaultModel:  client.Model(),
			StreamChunked: cfg.TranslationStreamChunked,
			Observer:      observer,
		},
	)
	documentsUC := usecase.NewTranslateDocumentsUseCase(
		registry,
		detector,
		textUC,
		localfs.NewFileWriter(),
		usecase.TranslateDocumentsOptions{
			DefaultDirection:  defaultDirection,
			DetectSampleChars: cfg.TranslationDetectSampleChars,
			Observer:          observer,
			Logger:            logger,
		},
	)
	uploadUC := usecase.NewUploadUseCase(storage, documentsUC, outputs.BasePath())

	return &App{
		Config: cfg,
		Logger: logger,

		Storage:          storage,
		Extractor:        registry,
		OutputDir:        outputs.BasePath(),
		DefaultDirection: defaultDirection,

		TextUC:      textUC,
		DocumentsUC: documentsUC,
		UploadUC:    uploadUC,
		DirectionUC: usecase.NewDetectDirectionUseCase(detector, defaultDirection, cfg.TranslationDetectSampleChars),

		HTTPMetrics: httpMetrics,
	}, nil
}

func resilienceConfig(cfg config.Config) resilience.Config {
	return resilience.Config{
		RetryMaxAttempts:        cfg.ResilienceRetryMaxAttempts,
		RetryInitialBackoff:     time.Duration(cfg.ResilienceRetryInitialBackoffMS) * time.Millisecond,
		RetryMaxBackoff:         time.Duration(cfg.ResilienceRetryMaxBackoffMS) * time.Millisecond,
		RetryMultiplier:         cfg.ResilienceRetryMultiplier,
		BreakerEnabled:          cfg.ResilienceBreakerEnabled,
		BreakerMinRequests:      uint32(max(cfg.ResilienceBreakerMinRequests, 0)),
		BreakerFailureRatio:     cfg.ResilienceBreakerFailureRatio,
		BreakerOpenTimeout:      time.Duration(cfg.ResilienceBreakerOpenTimeoutMS) * time.Millisecond,
		BreakerHalfOpenMaxCalls: uint32(max(cfg.ResilienceBreakerHalfOpenCalls, 0)),
	}
}
