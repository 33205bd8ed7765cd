package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"studiod/internal/backend"
	"studiod/internal/hardware"
	"studiod/internal/httpapi"
	"studiod/internal/studio"
)

// scriptedRunner is a backend.Runner that loads instantly and replays a
// canned token stream. With gate set, the stream emits its fragments and
// then parks until the gate closes, which keeps the studio's generation
// slot occupied for backpressure tests.
type scriptedRunner struct {
	mu        sync.Mutex
	info      *backend.ModelInfo
	loadErr   error
	fragments []string
	reason    string
	gate      chan struct{}
	loads     int
	unloads   int
	msgs      []backend.Message
}

func newScriptedRunner(fragments ...string) *scriptedRunner {
	return &scriptedRunner{fragments: fragments, reason: backend.FinishStop}
}

func (r *scriptedRunner) Name() string { return "llamacpp" }

func (r *scriptedRunner) Capabilities() []backend.Capability {
	return []backend.Capability{backend.CapStreaming}
}

func (r *scriptedRunner) Available() bool { return true }

func (r *scriptedRunner) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info != nil
}

func (r *scriptedRunner) Info() *backend.ModelInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

func (r *scriptedRunner) LoadModel(ctx context.Context, ref string, opts backend.LoadOptions) (*backend.ModelInfo, error) {
	r.mu.Lock()
	r.loads++
	err := r.loadErr
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	opts.Report("Ready", 1.0)
	info := &backend.ModelInfo{
		Name:          ref,
		SizeGB:        0.5,
		ContextLength: opts.ContextLength,
		Quantization:  "Q4",
	}
	r.mu.Lock()
	r.info = info
	r.mu.Unlock()
	return info, nil
}

func (r *scriptedRunner) UnloadModel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info != nil {
		r.unloads++
	}
	r.info = nil
	return nil
}

func (r *scriptedRunner) Generate(ctx context.Context, prompt string, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	return r.stream(ctx)
}

func (r *scriptedRunner) Chat(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	r.mu.Lock()
	r.msgs = append([]backend.Message(nil), messages...)
	r.mu.Unlock()
	return r.stream(ctx)
}

func (r *scriptedRunner) stream(ctx context.Context) (<-chan backend.GenerationResult, error) {
	r.mu.Lock()
	loaded := r.info != nil
	frags := append([]string(nil), r.fragments...)
	reason := r.reason
	gate := r.gate
	r.mu.Unlock()
	if !loaded {
		return nil, backend.ErrRuntime("no model loaded")
	}
	out := make(chan backend.GenerationResult, len(frags)+1)
	go func() {
		defer close(out)
		n := 0
		for _, frag := range frags {
			n++
			out <- backend.GenerationResult{Text: frag, TokensGenerated: n, FinishReason: backend.FinishGenerating}
		}
		if gate != nil {
			select {
			case <-gate:
			case <-ctx.Done():
				out <- backend.GenerationResult{TokensGenerated: n, FinishReason: backend.FinishStop}
				return
			}
		}
		out <- backend.GenerationResult{TokensGenerated: n, PromptTokens: 3, FinishReason: reason}
	}()
	return out, nil
}

func (r *scriptedRunner) CountTokens(ctx context.Context, text string) (int, error) {
	if !r.Loaded() {
		return 0, backend.ErrRuntime("no model loaded")
	}
	return len(strings.Fields(text)), nil
}

func (r *scriptedRunner) StopGeneration() {}

func (r *scriptedRunner) chatMessages() []backend.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]backend.Message(nil), r.msgs...)
}

func (r *scriptedRunner) counts() (loads, unloads int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads, r.unloads
}

func testHW() hardware.Info {
	return hardware.Info{
		Platform:       hardware.PlatformLinux,
		CPUCores:       8,
		RAMGB:          16,
		AvailableRAMGB: 8,
	}
}

// newServer stands up the whole stack: the scripted runner behind a real
// studio, behind the real HTTP mux, served over a real listener.
func newServer(t *testing.T, cfg studio.Config, runner *scriptedRunner) *httptest.Server {
	t.Helper()
	if cfg.Engine == "" {
		cfg.Engine = "llamacpp"
	}
	if cfg.Publisher == nil {
		cfg.Publisher = &httpapi.MetricsPublisher{}
	}
	if cfg.Hardware == nil {
		cfg.Hardware = testHW
	}
	st := studio.New(cfg, runner)
	t.Cleanup(func() { _ = st.Close() })
	srv := httptest.NewServer(httpapi.NewMux(st))
	t.Cleanup(srv.Close)
	return srv
}

// loadedServer is newServer plus a completed load of org/tiny.
func loadedServer(t *testing.T, runner *scriptedRunner) *httptest.Server {
	t.Helper()
	srv := newServer(t, studio.Config{}, runner)
	resp := postJSON(t, srv.URL+"/load", `{"model":"org/tiny"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("load: status %d, body %s", resp.StatusCode, body)
	}
	io.Copy(io.Discard, resp.Body)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func getURL(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

// decodeJSON reads and closes the response body into v, failing the test on
// an unexpected status.
func decodeJSON(t *testing.T, resp *http.Response, wantStatus int, v any) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("status = %d, want %d; body %s", resp.StatusCode, wantStatus, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

// sseData reads a full SSE body and returns the data payloads in order.
func sseData(t *testing.T, body io.Reader) []string {
	t.Helper()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	var events []string
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(line, "data: ") {
			events = append(events, strings.TrimPrefix(line, "data: "))
		}
	}
	return events
}
