package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

// echoBackend answers every request with "[<direction>] <chunk>" so tests can
// see which chunk was sent in which direction.
type echoBackend struct {
	mu       sync.Mutex
	requests []domain.CompletionRequest
	failOn   int
	err      error
	deltas   int
}

func (b *echoBackend) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	if b.err != nil && len(b.requests) == b.failOn {
		return "", b.err
	}
	return "  " + echo(req) + "\n", nil
}

func (b *echoBackend) Stream(_ context.Context, req domain.CompletionRequest, onDelta func(string) error) error {
	b.mu.Lock()
	b.requests = append(b.requests, req)
	failing := b.err != nil && len(b.requests) == b.failOn
	b.mu.Unlock()
	if failing {
		return b.err
	}
	out := echo(req)
	half := len(out) / 2
	for _, part := range []string{out[:half], out[half:]} {
		if part == "" {
			continue
		}
		b.deltas++
		if err := onDelta(part); err != nil {
			return err
		}
	}
	return nil
}

func echo(req domain.CompletionRequest) string {
	user := req.Messages[len(req.Messages)-1].Content
	task, chunk, _ := strings.Cut(user, "\n\n")
	direction := "en-fr"
	if task == translationTasks[domain.DirectionFrEn] {
		direction = "fr-en"
	}
	return "[" + direction + "] " + chunk
}

type recordingObserver struct {
	started     int
	finished    []domain.Direction
	failures    int
	chunks      []int
	remoteCalls []string
}

func (o *recordingObserver) StartDocument() { o.started++ }
func (o *recordingObserver) FinishDocument(direction domain.Direction, _ time.Duration, err error) {
	o.finished = append(o.finished, direction)
	if err != nil {
		o.failures++
	}
}
func (o *recordingObserver) ObserveChunks(count int) { o.chunks = append(o.chunks, count) }
func (o *recordingObserver) ObserveRemoteCall(operation string, _ time.Duration, _ error) {
	o.remoteCalls = append(o.remoteCalls, operation)
}

type fixedChunker struct {
	chunks []string
}

func (c fixedChunker) Split(string) []string { return c.chunks }

type memoryWriter struct {
	files map[string]string
	err   error
}

func (w *memoryWriter) WriteText(_ context.Context, path, text string) error {
	if w.err != nil {
		return w.err
	}
	if w.files == nil {
		w.files = make(map[string]string)
	}
	w.files[path] = text
	return nil
}

type uploadStorageFake struct {
	base  string
	saved map[string]string
	err   error
}

func (s *uploadStorageFake) Save(_ context.Context, key string, data io.Reader) error {
	if s.err != nil {
		return s.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.saved == nil {
		s.saved = make(map[string]string)
	}
	s.saved[key] = string(raw)
	return nil
}

func (s *uploadStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *uploadStorageFake) Path(key string) string {
	return s.base + "/" + key
}

type pipelineFake struct {
	req     domain.BatchRequest
	results []domain.TranslationResult
	err     error
}

func (p *pipelineFake) TranslateDocuments(_ context.Context, req domain.BatchRequest) ([]domain.TranslationResult, error) {
	p.req = req
	return p.results, p.err
}
