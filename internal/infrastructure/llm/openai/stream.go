package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

const maxEventBytes = 1 << 20

var errIncompleteStream = errors.New("stream ended before response.completed")

type streamEvent struct {
	Type     string             `json:"type"`
	Delta    string             `json:"delta"`
	Message  string             `json:"message"`
	Response *responsesResponse `json:"response"`
}

// emitError marks a failure raised by the caller's delta callback.
type emitError struct {
	err error
}

func (e *emitError) Error() string { return e.err.Error() }
func (e *emitError) Unwrap() error { return e.err }

func (c *Client) streamResponse(ctx context.Context, req domain.CompletionRequest, onDelta func(string) error) error {
	httpReq, err := c.newRequest(ctx, "/responses", responsesRequest{Model: req.Model, Input: req.Messages, Stream: true}, operationStream)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openai %s request: %w", operationStream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return newHTTPStatusError(operationStream, resp)
	}
	return readEvents(resp.Body, onDelta)
}

// readEvents drains a server-sent event stream. It returns nil only after a
// response.completed event.
func readEvents(body io.Reader, onDelta func(string) error) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventBytes)

	var data strings.Builder
	dispatch := func() (bool, error) {
		if data.Len() == 0 {
			return false, nil
		}
		payload := data.String()
		data.Reset()
		if payload == "[DONE]" {
			return false, nil
		}
		return handleEvent(payload, onDelta)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			done, err := dispatch()
			if err != nil || done {
				return err
			}
			continue
		}
		if value, ok := strings.CutPrefix(line, "data:"); ok {
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(value, " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s events: %w", operationStream, err)
	}
	done, err := dispatch()
	if err != nil {
		return err
	}
	if !done {
		return errIncompleteStream
	}
	return nil
}

func handleEvent(payload string, onDelta func(string) error) (bool, error) {
	var event streamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return false, fmt.Errorf("decode %s event: %w", operationStream, err)
	}

	switch event.Type {
	case "response.output_text.delta":
		if event.Delta == "" {
			return false, nil
		}
		if err := onDelta(event.Delta); err != nil {
			return false, &emitError{err: err}
		}
	case "response.completed":
		return true, nil
	case "response.failed", "response.incomplete":
		if event.Response != nil && event.Response.Error != nil {
			return false, fmt.Errorf("openai %s: %s: %w", operationStream, event.Type, event.Response.Error)
		}
		return false, fmt.Errorf("openai %s: %s", operationStream, event.Type)
	case "error":
		return false, fmt.Errorf("openai %s error event: %s", operationStream, event.Message)
	}
	return false, nil
}
