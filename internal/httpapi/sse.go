package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"studiod/internal/backend"
	"studiod/pkg/types"
)

// sseWriter frames JSON payloads as Server-Sent Events and flushes after
// every event so tokens reach the client as they are generated.
type sseWriter struct {
	w     io.Writer
	flush func()
}

func newSSEWriter(w http.ResponseWriter, r *http.Request) *sseWriter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	out := io.Writer(w)
	if requestLogLevel(r) >= LevelDebug {
		out = io.MultiWriter(w, &streamTapWriter{})
	}
	sw := &sseWriter{w: out, flush: func() {}}
	if f, ok := w.(http.Flusher); ok {
		sw.flush = f.Flush
	}
	return sw
}

func (sw *sseWriter) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(sw.w, "data: %s\n\n", data)
	sw.flush()
}

func (sw *sseWriter) done() {
	io.WriteString(sw.w, "data: [DONE]\n\n")
	sw.flush()
}

// finished reports whether a result closes the stream normally. Error
// terminals already carry their message in Text, so the text chunk is the
// whole story and no finish chunk follows.
func finished(res backend.GenerationResult) bool {
	return res.FinishReason == backend.FinishStop || res.FinishReason == backend.FinishLength
}

// streamChat writes chat.completion.chunk events until the generation ends,
// then a closing chunk carrying finish_reason and the [DONE] sentinel.
func (s *server) streamChat(w http.ResponseWriter, r *http.Request, ch <-chan backend.GenerationResult, id string, created int64, model string) {
	sw := newSSEWriter(w, r)
	for res := range ch {
		if res.Text != "" {
			sw.send(types.ChatCompletionChunk{
				ID:      id,
				Object:  "chat.completion.chunk",
				Created: created,
				Model:   model,
				Choices: []types.ChunkChoice{{
					Index: 0,
					Delta: types.ChunkDelta{Content: res.Text},
				}},
			})
		}
		if finished(res) {
			reason := res.FinishReason
			sw.send(types.ChatCompletionChunk{
				ID:      id,
				Object:  "chat.completion.chunk",
				Created: created,
				Model:   model,
				Choices: []types.ChunkChoice{{
					Index:        0,
					Delta:        types.ChunkDelta{},
					FinishReason: &reason,
				}},
			})
		}
	}
	sw.done()
}

// streamCompletion writes text_completion chunks until the generation ends,
// then a closing chunk carrying finish_reason and the [DONE] sentinel.
func (s *server) streamCompletion(w http.ResponseWriter, r *http.Request, ch <-chan backend.GenerationResult, id string, created int64, model string) {
	sw := newSSEWriter(w, r)
	for res := range ch {
		if res.Text != "" {
			sw.send(types.CompletionResponse{
				ID:      id,
				Object:  "text_completion",
				Created: created,
				Model:   model,
				Choices: []types.CompletionChoice{{
					Text:  res.Text,
					Index: 0,
				}},
			})
		}
		if finished(res) {
			reason := res.FinishReason
			sw.send(types.CompletionResponse{
				ID:      id,
				Object:  "text_completion",
				Created: created,
				Model:   model,
				Choices: []types.CompletionChoice{{
					Text:         "",
					Index:        0,
					FinishReason: &reason,
				}},
			})
		}
	}
	sw.done()
}
