package mlx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"studiod/internal/backend"
)

// stubHandle points the runner's client at a test server instead of a
// spawned child.
type stubHandle struct {
	url     string
	stopped *atomic.Int64
}

func (h stubHandle) baseURL() string { return h.url }

func (h stubHandle) stop() {
	if h.stopped != nil {
		h.stopped.Add(1)
	}
}

// newTestRunner serves the engine's OpenAI surface from handler and
// returns a runner whose spawn hands out that server.
func newTestRunner(t *testing.T, handler http.Handler) (*Runner, *atomic.Int64) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	var stopped atomic.Int64
	r := New()
	r.available = func() bool { return true }
	r.spawn = func(context.Context, string, backend.LoadOptions) (serverHandle, error) {
		return stubHandle{url: ts.URL, stopped: &stopped}, nil
	}
	return r, &stopped
}

func loadTestModel(t *testing.T, r *Runner, ref string) *backend.ModelInfo {
	t.Helper()
	info, err := r.LoadModel(context.Background(), ref, backend.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	return info
}

// requestLog records the JSON bodies an endpoint received.
type requestLog struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (l *requestLog) record(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request: %v", err)
	}
	l.mu.Lock()
	l.bodies = append(l.bodies, body)
	l.mu.Unlock()
	return body
}

func (l *requestLog) last() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.bodies) == 0 {
		return nil
	}
	return l.bodies[len(l.bodies)-1]
}

func (l *requestLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bodies)
}

// writeSSE emits each payload as one event and terminates the stream.
func writeSSE(w http.ResponseWriter, payloads ...any) {
	w.Header().Set("Content-Type", "text/event-stream")
	for _, p := range payloads {
		b, _ := json.Marshal(p)
		fmt.Fprintf(w, "data: %s\n\n", b)
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
}

// completionChunk is one completion stream event in wire shape.
func completionChunk(text, finish string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{{"text": text, "index": 0, "finish_reason": finish}},
	}
}

// chatChunk is one chat stream event in wire shape.
func chatChunk(content, finish string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{{
			"index":         0,
			"delta":         map[string]any{"content": content},
			"finish_reason": finish,
		}},
	}
}

// collect drains a generation stream to completion.
func collect(t *testing.T, ch <-chan backend.GenerationResult) []backend.GenerationResult {
	t.Helper()
	var out []backend.GenerationResult
	for res := range ch {
		out = append(out, res)
	}
	if len(out) == 0 {
		t.Fatalf("stream yielded no results")
	}
	return out
}

// checkTerminal returns the stream's terminal result, failing if any
// earlier result was already terminal.
func checkTerminal(t *testing.T, results []backend.GenerationResult) backend.GenerationResult {
	t.Helper()
	for i, res := range results[:len(results)-1] {
		if res.Terminal() {
			t.Fatalf("result %d of %d is terminal: %+v", i, len(results), res)
		}
	}
	last := results[len(results)-1]
	if !last.Terminal() {
		t.Fatalf("last result not terminal: %+v", last)
	}
	return last
}
