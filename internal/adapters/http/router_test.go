package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/doc-translator/internal/config"
	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/usecase"
	"github.com/kirillkom/doc-translator/internal/infrastructure/langdetect"
	"github.com/kirillkom/doc-translator/internal/observability/metrics"
)

type uploadFake struct {
	files   []string
	bodies  []string
	mode    domain.Mode
	results []domain.TranslationResult
	err     error
}

func (f *uploadFake) Upload(_ context.Context, files []domain.UploadedFile, mode domain.Mode) ([]domain.TranslationResult, error) {
	f.mode = mode
	for _, file := range files {
		raw, err := io.ReadAll(file.Body)
		if err != nil {
			return nil, err
		}
		f.files = append(f.files, file.Filename)
		f.bodies = append(f.bodies, string(raw))
	}
	return f.results, f.err
}

type translatorFake struct {
	direction domain.Direction
	model     string
	err       error
}

func (f *translatorFake) Translate(_ context.Context, text string, direction domain.Direction, model string) (string, error) {
	f.direction = direction
	f.model = model
	if f.err != nil {
		return "", f.err
	}
	return "translated: " + text, nil
}

type streamerFake struct {
	deltas []string
	err    error
}

func (f *streamerFake) Stream(_ context.Context, _ string, _ domain.Direction, _ string, emit func(string) error) error {
	for _, delta := range f.deltas {
		if err := emit(delta); err != nil {
			return err
		}
	}
	return f.err
}

type routerFixture struct {
	uploads    *uploadFake
	translator *translatorFake
	streamer   *streamerFake
	outputDir  string
	handler    http.Handler
}

func newRouterFixture(t *testing.T, cfg config.Config) *routerFixture {
	t.Helper()
	fx := &routerFixture{
		uploads:    &uploadFake{},
		translator: &translatorFake{},
		streamer:   &streamerFake{},
		outputDir:  t.TempDir(),
	}
	fallback := domain.DirectionEnFr
	if cfg.TranslationDefaultDirection != "" {
		fallback = domain.Direction(cfg.TranslationDefaultDirection)
	}
	fx.handler = NewRouter(cfg, Dependencies{
		Uploads:    fx.uploads,
		Translator: fx.translator,
		Streamer:   fx.streamer,
		Directions: usecase.NewDetectDirectionUseCase(langdetect.NewHeuristic(), fallback, 2000),
		Metrics:    metrics.NewHTTPServerMetrics("test"),
		OutputDir:  fx.outputDir,
	}).Handler()
	return fx
}

func (fx *routerFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	res := httptest.NewRecorder()
	fx.handler.ServeHTTP(res, req)
	return res
}

func multipartUpload(t *testing.T, mode string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if mode != "" {
		if err := writer.WriteField("mode", mode); err != nil {
			t.Fatalf("write mode: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func TestHealthEndpoints(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	for _, path := range []string{"/health", "/healthz"} {
		res := fx.serve(httptest.NewRequest(http.MethodGet, path, nil))
		if res.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, res.Code)
		}
		if decodeBody(t, res)["status"] != "ok" {
			t.Fatalf("%s: expected status ok", path)
		}
		if res.Header().Get(requestIDHeader) == "" {
			t.Fatalf("%s: expected request id header", path)
		}
	}
}

func TestIndexRendersUploadForm(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	res := fx.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, `action="/upload"`) || !strings.Contains(body, `name="files"`) {
		t.Fatalf("expected upload form, got %s", body)
	}

	res = fx.serve(httptest.NewRequest(http.MethodGet, "/nope", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", res.Code)
	}
}

func TestUploadJSONSuccess(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	fx.uploads.results = []domain.TranslationResult{{
		SourcePath: "/data/uploads/1a2b3c4d__hello.txt",
		OutputPath: "/data/translated/1a2b3c4d__hello.fr-en.translated.txt",
		Direction:  domain.DirectionFrEn,
	}}

	body, contentType := multipartUpload(t, "fr-en", map[string]string{"hello.txt": "Bonjour le monde"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	res := fx.serve(req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if fx.uploads.mode != domain.Mode(domain.DirectionFrEn) {
		t.Fatalf("expected mode fr-en, got %s", fx.uploads.mode)
	}
	if len(fx.uploads.bodies) != 1 || fx.uploads.bodies[0] != "Bonjour le monde" {
		t.Fatalf("unexpected uploaded bodies: %v", fx.uploads.bodies)
	}

	payload := decodeBody(t, res)
	results, _ := payload["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %v", payload)
	}
	item := results[0].(map[string]any)
	if item["output_url"] != "/translated/1a2b3c4d__hello.fr-en.translated.txt" {
		t.Fatalf("unexpected output url: %v", item["output_url"])
	}
	if item["source_name"] != "1a2b3c4d__hello.txt" || item["direction"] != "fr-en" {
		t.Fatalf("unexpected result item: %v", item)
	}
}

func TestUploadHTMLListsResults(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	fx.uploads.results = []domain.TranslationResult{{
		SourcePath: "/u/a__notes.txt",
		OutputPath: "/t/a__notes.en-fr.translated.txt",
		Direction:  domain.DirectionEnFr,
	}}

	body, contentType := multipartUpload(t, "", map[string]string{"notes.txt": "Hello"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	res := fx.serve(req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.HasPrefix(res.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html response, got %s", res.Header().Get("Content-Type"))
	}
	if !strings.Contains(res.Body.String(), `href="/translated/a__notes.en-fr.translated.txt"`) {
		t.Fatalf("expected download link, got %s", res.Body.String())
	}
	if !fx.uploads.mode.IsAuto() {
		t.Fatalf("expected auto mode when the form omits it, got %s", fx.uploads.mode)
	}
}

func TestUploadWithoutFiles(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})

	body, contentType := multipartUpload(t, "auto", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if res := fx.serve(req); res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for JSON client, got %d", res.Code)
	}

	body, contentType = multipartUpload(t, "auto", nil)
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	res := fx.serve(req)
	if res.Code != http.StatusSeeOther || res.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to form, got %d %s", res.Code, res.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("plain"))
	req.Header.Set("Accept", "application/json")
	if res := fx.serve(req); res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-multipart body, got %d", res.Code)
	}
}

func TestUploadMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported", domain.WrapError(domain.ErrUnsupportedFormat, "extract text", errors.New(".xyz")), http.StatusUnsupportedMediaType},
		{"dependency", domain.WrapError(domain.ErrDependencyMissing, "extract text", errors.New("pdf text extraction")), http.StatusNotImplemented},
		{"configuration", domain.WrapError(domain.ErrConfiguration, "openai client", errors.New("OPENAI_API_KEY is not set")), http.StatusInternalServerError},
		{"remote", domain.WrapError(domain.ErrRemoteService, "responses.create", errors.New("bad gateway")), http.StatusBadGateway},
		{"temporary", domain.WrapError(domain.ErrTemporary, "responses.create", errors.New("circuit open")), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newRouterFixture(t, config.Config{})
			fx.uploads.err = tc.err

			body, contentType := multipartUpload(t, "auto", map[string]string{"data.xyz": "x"})
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Accept", "application/json")
			res := fx.serve(req)
			if res.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, res.Code)
			}
			if decodeBody(t, res)["error"] == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestUploadReturnsPartialResultsWithError(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	fx.uploads.results = []domain.TranslationResult{{SourcePath: "/u/a.txt", OutputPath: "/t/a.en-fr.translated.txt", Direction: domain.DirectionEnFr}}
	fx.uploads.err = domain.WrapError(domain.ErrUnsupportedFormat, "extract text", errors.New(".xyz"))

	body, contentType := multipartUpload(t, "en-fr", map[string]string{"a.txt": "x"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	res := fx.serve(req)

	payload := decodeBody(t, res)
	if results, _ := payload["results"].([]any); len(results) != 1 {
		t.Fatalf("expected partial results, got %v", payload)
	}
}

func TestUploadInvalidMode(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	body, contentType := multipartUpload(t, "de-en", map[string]string{"a.txt": "x"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if res := fx.serve(req); res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if len(fx.uploads.files) != 0 {
		t.Fatalf("upload service must not be called for an invalid mode")
	}
}

func TestUploadTooLarge(t *testing.T) {
	fx := newRouterFixture(t, config.Config{UploadMaxBytes: 64})
	body, contentType := multipartUpload(t, "auto", map[string]string{"big.txt": strings.Repeat("a", 1024)})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if res := fx.serve(req); res.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", res.Code)
	}
}

func TestDownloadTranslated(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	name := "hello.fr-en.translated.txt"
	if err := os.WriteFile(filepath.Join(fx.outputDir, name), []byte("Hello world"), 0o644); err != nil {
		t.Fatalf("write output: %v", err)
	}

	res := fx.serve(httptest.NewRequest(http.MethodGet, "/translated/"+name, nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Body.String() != "Hello world" {
		t.Fatalf("unexpected body %q", res.Body.String())
	}
	if !strings.HasPrefix(res.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type %s", res.Header().Get("Content-Type"))
	}

	if res := fx.serve(httptest.NewRequest(http.MethodGet, "/translated/missing.txt", nil)); res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing file, got %d", res.Code)
	}
}

func TestDownloadRejectsTraversal(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	for _, target := range []string{"/translated/..%5Csecret.txt", "/translated/a%2Fb.txt", "/translated/"} {
		res := fx.serve(httptest.NewRequest(http.MethodGet, target, nil))
		if res.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, res.Code)
		}
	}
}

func postJSON(t *testing.T, path string, payload any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestTranslateTextAutoDetects(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	res := fx.serve(postJSON(t, "/v1/translate", map[string]string{"text": "Bonjour le monde", "model": "gpt-4.1"}))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	payload := decodeBody(t, res)
	if payload["direction"] != "fr-en" || payload["text"] != "translated: Bonjour le monde" {
		t.Fatalf("unexpected response: %v", payload)
	}
	if fx.translator.direction != domain.DirectionFrEn || fx.translator.model != "gpt-4.1" {
		t.Fatalf("unexpected translator call: %+v", fx.translator)
	}
}

func TestTranslateTextValidation(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	cases := []struct {
		body any
		want int
	}{
		{map[string]string{"text": "  "}, http.StatusBadRequest},
		{map[string]string{"text": "hi", "direction": "xx-yy"}, http.StatusBadRequest},
		{"not an object", http.StatusBadRequest},
	}
	for _, tc := range cases {
		if res := fx.serve(postJSON(t, "/v1/translate", tc.body)); res.Code != tc.want {
			t.Fatalf("body %v: expected %d, got %d", tc.body, tc.want, res.Code)
		}
	}
	if res := fx.serve(httptest.NewRequest(http.MethodGet, "/v1/translate", nil)); res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestTranslateTextRemoteError(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	fx.translator.err = domain.WrapError(domain.ErrRemoteService, "responses.create", errors.New("500"))
	res := fx.serve(postJSON(t, "/v1/translate", map[string]string{"text": "Hello", "direction": "en-fr"}))
	if res.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.Code)
	}
}

func TestStreamTextWritesServerSentEvents(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	fx.streamer.deltas = []string{"Bon", "jour"}

	res := fx.serve(postJSON(t, "/v1/translate/stream", map[string]string{"text": "Hello", "direction": "en-fr"}))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("expected event stream, got %s", res.Header().Get("Content-Type"))
	}
	want := "data: {\"delta\":\"Bon\"}\n\ndata: {\"delta\":\"jour\"}\n\ndata: [DONE]\n\n"
	if res.Body.String() != want {
		t.Fatalf("unexpected stream body:\n%q\nwant:\n%q", res.Body.String(), want)
	}
}

func TestStreamTextErrorBeforeFirstDelta(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	fx.streamer.err = domain.WrapError(domain.ErrConfiguration, "openai client", errors.New("OPENAI_API_KEY is not set"))

	res := fx.serve(postJSON(t, "/v1/translate/stream", map[string]string{"text": "Hello"}))
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if !strings.Contains(decodeBody(t, res)["error"].(string), "OPENAI_API_KEY") {
		t.Fatalf("expected configuration message")
	}
}

func TestStreamTextErrorAfterDeltas(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	fx.streamer.deltas = []string{"Bon"}
	fx.streamer.err = domain.WrapError(domain.ErrRemoteService, "responses.stream", errors.New("stream ended before response.completed"))

	res := fx.serve(postJSON(t, "/v1/translate/stream", map[string]string{"text": "Hello"}))
	body := res.Body.String()
	if !strings.Contains(body, `"error"`) || strings.Contains(body, "[DONE]") {
		t.Fatalf("expected error event without [DONE], got %q", body)
	}
}

func TestDetectDirection(t *testing.T) {
	fx := newRouterFixture(t, config.Config{TranslationDefaultDirection: "fr-en"})
	res := fx.serve(postJSON(t, "/v1/detect", map[string]string{"text": "Hello there"}))
	if got := decodeBody(t, res)["direction"]; got != "fr-en" {
		t.Fatalf("expected configured fallback fr-en, got %v", got)
	}

	res = fx.serve(postJSON(t, "/v1/detect", map[string]string{"text": "Il était une fois"}))
	if got := decodeBody(t, res)["direction"]; got != "fr-en" {
		t.Fatalf("expected fr-en for French text, got %v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	fx := newRouterFixture(t, config.Config{})
	fx.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	res := fx.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "doctranslate_http_requests_total") {
		t.Fatalf("expected http metrics, got %s", res.Body.String())
	}
}
