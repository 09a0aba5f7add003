package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

const maxTextBodyBytes = 4 << 20

type translateRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
	Model     string `json:"model"`
}

type translateResponse struct {
	Text      string           `json:"text"`
	Direction domain.Direction `json:"direction"`
}

func (rt *Router) translateText(w http.ResponseWriter, r *http.Request) {
	req, direction, ok := rt.decodeTranslateRequest(w, r)
	if !ok {
		return
	}

	text, err := rt.deps.Translator.Translate(r.Context(), req.Text, direction, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{Text: text, Direction: direction})
}

// streamText answers with server-sent events: one {"delta": ...} object per
// fragment and a final [DONE]. Failures before the first fragment get a
// regular JSON error response.
func (rt *Router) streamText(w http.ResponseWriter, r *http.Request) {
	req, direction, ok := rt.decodeTranslateRequest(w, r)
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming is not supported"})
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Translation-Direction", direction.String())
		w.WriteHeader(http.StatusOK)
	}

	err := rt.deps.Streamer.Stream(r.Context(), req.Text, direction, req.Model, func(delta string) error {
		start()
		if err := writeEvent(w, map[string]string{"delta": delta}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if !started {
			writeError(w, err)
			return
		}
		_ = writeEvent(w, map[string]string{"error": err.Error()})
		flusher.Flush()
		return
	}

	start()
	_, _ = io.WriteString(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func writeEvent(w io.Writer, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", raw)
	return err
}

func (rt *Router) detectDirection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTextBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.Direction{"direction": rt.deps.Directions.Detect(req.Text)})
}

func (rt *Router) decodeTranslateRequest(w http.ResponseWriter, r *http.Request) (translateRequest, domain.Direction, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return translateRequest{}, "", false
	}

	var req translateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTextBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return translateRequest{}, "", false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return translateRequest{}, "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return translateRequest{}, "", false
	}

	mode, err := domain.ParseMode(req.Direction)
	if err != nil {
		writeError(w, err)
		return translateRequest{}, "", false
	}
	return req, rt.deps.Directions.Resolve(mode, req.Text), true
}
