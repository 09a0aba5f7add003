package httpadapter

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

const multipartMemory = 32 << 20

type uploadResult struct {
	SourceName string           `json:"source_name"`
	OutputName string           `json:"output_name"`
	OutputURL  string           `json:"output_url"`
	Direction  domain.Direction `json:"direction"`
}

type resultPage struct {
	Results []uploadResult
	Error   string
}

func (rt *Router) upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	asJSON := wantsJSON(r)

	if limit := rt.cfg.UploadMaxBytes; limit > 0 {
		if r.ContentLength > limit {
			rt.respondUploadError(w, asJSON, http.StatusRequestEntityTooLarge, "upload exceeds size limit", nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rt.respondUploadError(w, asJSON, http.StatusRequestEntityTooLarge, "upload exceeds size limit", nil)
			return
		}
		rt.respondUploadError(w, asJSON, http.StatusBadRequest, "multipart form with field 'files' is required", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	mode, err := domain.ParseMode(r.FormValue("mode"))
	if err != nil {
		rt.respondUploadError(w, asJSON, http.StatusBadRequest, err.Error(), nil)
		return
	}

	files, closeFiles, err := openUploadedFiles(r.MultipartForm.File["files"])
	defer closeFiles()
	if err != nil {
		rt.respondUploadError(w, asJSON, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if len(files) == 0 {
		if !asJSON {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return
	}
	if rt.deps.Metrics != nil {
		rt.deps.Metrics.RecordUpload(serviceName, len(files))
	}

	results, err := rt.deps.Uploads.Upload(r.Context(), files, mode)
	items := toUploadResults(results)
	if err != nil {
		rt.respondUploadError(w, asJSON, mapErrorToHTTPStatus(err), err.Error(), items)
		return
	}

	if asJSON {
		writeJSON(w, http.StatusOK, map[string]any{"results": items})
		return
	}
	renderPage(w, http.StatusOK, "result.html", resultPage{Results: items})
}

func (rt *Router) respondUploadError(w http.ResponseWriter, asJSON bool, status int, message string, partial []uploadResult) {
	if asJSON {
		payload := map[string]any{"error": message}
		if len(partial) > 0 {
			payload["results"] = partial
		}
		writeJSON(w, status, payload)
		return
	}
	renderPage(w, status, "result.html", resultPage{Results: partial, Error: message})
}

func openUploadedFiles(headers []*multipart.FileHeader) ([]domain.UploadedFile, func(), error) {
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	files := make([]domain.UploadedFile, 0, len(headers))
	for _, header := range headers {
		if header == nil || header.Filename == "" {
			continue
		}
		f, err := header.Open()
		if err != nil {
			return nil, closeAll, domain.WrapError(domain.ErrInvalidInput, "open upload", err)
		}
		opened = append(opened, f)
		files = append(files, domain.UploadedFile{Filename: header.Filename, Body: f})
	}
	return files, closeAll, nil
}

func toUploadResults(results []domain.TranslationResult) []uploadResult {
	items := make([]uploadResult, 0, len(results))
	for _, result := range results {
		outputName := filepath.Base(result.OutputPath)
		items = append(items, uploadResult{
			SourceName: filepath.Base(result.SourcePath),
			OutputName: outputName,
			OutputURL:  "/translated/" + url.PathEscape(outputName),
			Direction:  result.Direction,
		})
	}
	return items
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (rt *Router) downloadTranslated(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/translated/")
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "\x00") {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "download", errors.New("invalid file name")))
		return
	}

	path := filepath.Join(rt.deps.OutputDir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, domain.WrapError(domain.ErrNotFound, "download", errors.New("translated file not found")))
			return
		}
		writeError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeError(w, domain.WrapError(domain.ErrNotFound, "download", errors.New("translated file not found")))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeContent(w, r, name, info.ModTime(), f)
}
