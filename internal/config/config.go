package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort  string
	LogLevel string

	UploadPath string
	OutputPath string

	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OpenAIModel          string
	OpenAITimeoutSeconds int

	TranslationMaxChars          int
	TranslationChunkOverlap      int
	TranslationStreamChunked     bool
	TranslationDefaultDirection  string
	TranslationDetectSampleChars int

	ExtractorDisabledFormats []string

	UploadMaxBytes int64

	APIRateLimitRPS            float64
	APIRateLimitBurst          int
	APIBackpressureMaxInFlight int
	APIBackpressureWaitMillis  int

	ResilienceRetryMaxAttempts      int
	ResilienceRetryInitialBackoffMS int
	ResilienceRetryMaxBackoffMS     int
	ResilienceRetryMultiplier       float64
	ResilienceBreakerEnabled        bool
	ResilienceBreakerMinRequests    int
	ResilienceBreakerFailureRatio   float64
	ResilienceBreakerOpenTimeoutMS  int
	ResilienceBreakerHalfOpenCalls  int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", mustEnv("PORT", "3000")),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		UploadPath: mustEnv("UPLOAD_PATH", "./data/uploads"),
		OutputPath: mustEnv("OUTPUT_PATH", "./data/translated"),

		OpenAIAPIKey:         mustEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:        mustEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:          mustEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeoutSeconds: mustEnvInt("OPENAI_TIMEOUT_SECONDS", 120),

		TranslationMaxChars:          mustEnvInt("TRANSLATION_MAX_CHARS", 12000),
		TranslationChunkOverlap:      mustEnvInt("TRANSLATION_CHUNK_OVERLAP", 200),
		TranslationStreamChunked:     mustEnvBool("TRANSLATION_STREAM_CHUNKED", true),
		TranslationDefaultDirection:  mustEnv("TRANSLATION_DEFAULT_DIRECTION", "en-fr"),
		TranslationDetectSampleChars: mustEnvInt("TRANSLATION_DETECT_SAMPLE_CHARS", 2000),

		ExtractorDisabledFormats: mustEnvList("EXTRACTOR_DISABLED_FORMATS"),

		UploadMaxBytes: int64(mustEnvInt("UPLOAD_MAX_BYTES", 50<<20)),

		APIRateLimitRPS:            mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:          mustEnvInt("API_RATE_LIMIT_BURST", 10),
		APIBackpressureMaxInFlight: mustEnvInt("API_BACKPRESSURE_MAX_IN_FLIGHT", 0),
		APIBackpressureWaitMillis:  mustEnvInt("API_BACKPRESSURE_WAIT_MS", 250),

		ResilienceRetryMaxAttempts:      mustEnvInt("RESILIENCE_RETRY_MAX_ATTEMPTS", 1),
		ResilienceRetryInitialBackoffMS: mustEnvInt("RESILIENCE_RETRY_INITIAL_BACKOFF_MS", 100),
		ResilienceRetryMaxBackoffMS:     mustEnvInt("RESILIENCE_RETRY_MAX_BACKOFF_MS", 400),
		ResilienceRetryMultiplier:       mustEnvFloat("RESILIENCE_RETRY_MULTIPLIER", 2),
		ResilienceBreakerEnabled:        mustEnvBool("RESILIENCE_BREAKER_ENABLED", true),
		ResilienceBreakerMinRequests:    mustEnvInt("RESILIENCE_BREAKER_MIN_REQUESTS", 5),
		ResilienceBreakerFailureRatio:   mustEnvFloat("RESILIENCE_BREAKER_FAILURE_RATIO", 0.6),
		ResilienceBreakerOpenTimeoutMS:  mustEnvInt("RESILIENCE_BREAKER_OPEN_TIMEOUT_MS", 30000),
		ResilienceBreakerHalfOpenCalls:  mustEnvInt("RESILIENCE_BREAKER_HALF_OPEN_MAX_CALLS", 1),
	}
}

// LoadDotEnv reads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
