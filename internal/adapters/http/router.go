package httpadapter

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirillkom/doc-translator/internal/config"
	"github.com/kirillkom/doc-translator/internal/core/ports"
	"github.com/kirillkom/doc-translator/internal/observability/metrics"
)

const serviceName = "api"

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Dependencies are the services the HTTP surface delegates to.
type Dependencies struct {
	Uploads    ports.UploadService
	Translator ports.TextTranslator
	Streamer   ports.TextStreamer
	Directions ports.DirectionResolver
	Metrics    *metrics.HTTPServerMetrics

	// OutputDir is where translated files are served from.
	OutputDir string
}

type Router struct {
	cfg  config.Config
	deps Dependencies
}

func NewRouter(cfg config.Config, deps Dependencies) *Router {
	return &Router{
		cfg:  cfg,
		deps: deps,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.index)
	mux.HandleFunc("/upload", rt.upload)
	mux.HandleFunc("/translated/", rt.downloadTranslated)
	mux.HandleFunc("/health", rt.health)
	mux.HandleFunc("/healthz", rt.health)
	mux.HandleFunc("/v1/translate", rt.translateText)
	mux.HandleFunc("/v1/translate/stream", rt.streamText)
	mux.HandleFunc("/v1/detect", rt.detectDirection)
	if rt.deps.Metrics != nil {
		mux.Handle("/metrics", rt.deps.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIBackpressureMaxInFlight, time.Duration(rt.cfg.APIBackpressureWaitMillis)*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.deps.Metrics != nil {
		handler = rt.deps.Metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	renderPage(w, http.StatusOK, "index.html", nil)
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render_template_failed", "template", name, "error", err)
	}
}
