package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"

	operationCreate = "responses.create"
	operationStream = "responses.stream"
)

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Executor   *resilience.Executor
	HTTPClient *http.Client
}

// Client talks to an OpenAI-compatible Responses endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
	configErr  error
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		executor:   opts.Executor,
	}
	c.configErr = c.validate()
	return c
}

// Model returns the model used when a request does not name one.
func (c *Client) Model() string {
	return c.model
}

// Complete sends one request and returns the aggregated output text.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if c.configErr != nil {
		return "", c.configErr
	}
	req = c.withDefaults(req)

	text, err := resilience.Call(ctx, c.executor, operationCreate, func(callCtx context.Context) (string, error) {
		return c.createResponse(callCtx, req)
	}, classifyRemoteError)
	if err != nil {
		return "", wrapRemoteError(operationCreate, err)
	}
	return text, nil
}

// Stream sends one streaming request and forwards text deltas to onDelta
// until the response completes.
func (c *Client) Stream(ctx context.Context, req domain.CompletionRequest, onDelta func(string) error) error {
	if c.configErr != nil {
		return c.configErr
	}
	if onDelta == nil {
		onDelta = func(string) error { return nil }
	}
	req = c.withDefaults(req)

	emitted := false
	forward := func(delta string) error {
		emitted = true
		return onDelta(delta)
	}
	classifier := func(err error) resilience.ErrorClassification {
		class := classifyRemoteError(err)
		if emitted {
			class.Retryable = false
		}
		return class
	}

	err := c.executor.Execute(ctx, operationStream, func(callCtx context.Context) error {
		return c.streamResponse(callCtx, req, forward)
	}, classifier)
	if err != nil {
		return wrapRemoteError(operationStream, err)
	}
	return nil
}

func (c *Client) withDefaults(req domain.CompletionRequest) domain.CompletionRequest {
	if strings.TrimSpace(req.Model) == "" {
		req.Model = c.model
	}
	return req
}

func (c *Client) validate() error {
	if c.apiKey == "" {
		return domain.WrapError(domain.ErrConfiguration, "openai client", fmt.Errorf("OPENAI_API_KEY is not set"))
	}
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.WrapError(domain.ErrConfiguration, "openai client", fmt.Errorf("invalid OPENAI_BASE_URL %q: %w", c.baseURL, err))
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return domain.WrapError(domain.ErrConfiguration, "openai client", fmt.Errorf("invalid OPENAI_BASE_URL %q: expected http(s) URL", c.baseURL))
	}
	return nil
}
