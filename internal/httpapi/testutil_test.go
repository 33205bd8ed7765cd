package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studiod/internal/backend"
	"studiod/internal/hardware"
	"studiod/internal/studio"
)

// fakeService scripts the studio surface for handler tests.
type fakeService struct {
	engine string
	info   *backend.ModelInfo
	status studio.Status

	loadInfo *backend.ModelInfo
	loadErr  error
	lastRef  string
	lastOpts backend.LoadOptions

	unloadErr error
	unloads   int

	results []backend.GenerationResult
	genErr  error

	lastPrompt string
	lastMsgs   []backend.Message
	lastCfg    backend.GenerationConfig
}

func (f *fakeService) Engine() string            { return f.engine }
func (f *fakeService) Loaded() bool              { return f.info != nil }
func (f *fakeService) Info() *backend.ModelInfo  { return f.info }
func (f *fakeService) Status() studio.Status     { return f.status }

func (f *fakeService) Load(ctx context.Context, ref string, opts backend.LoadOptions) (*backend.ModelInfo, error) {
	f.lastRef = ref
	f.lastOpts = opts
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.loadInfo, nil
}

func (f *fakeService) Unload() error {
	f.unloads++
	return f.unloadErr
}

func (f *fakeService) stream() (<-chan backend.GenerationResult, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	ch := make(chan backend.GenerationResult, len(f.results))
	for _, res := range f.results {
		ch <- res
	}
	close(ch)
	return ch, nil
}

func (f *fakeService) GenerateStream(ctx context.Context, prompt string, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	f.lastPrompt = prompt
	f.lastCfg = cfg
	return f.stream()
}

func (f *fakeService) ChatStream(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	f.lastMsgs = messages
	f.lastCfg = cfg
	return f.stream()
}

func (f *fakeService) gather() (backend.GenerationResult, error) {
	ch, err := f.stream()
	if err != nil {
		return backend.GenerationResult{}, err
	}
	var out backend.GenerationResult
	for res := range ch {
		out.Text += res.Text
		if res.TokensGenerated > 0 {
			out.TokensGenerated = res.TokensGenerated
		}
		if res.PromptTokens > 0 {
			out.PromptTokens = res.PromptTokens
		}
		out.FinishReason = res.FinishReason
	}
	return out, nil
}

func (f *fakeService) Completion(ctx context.Context, prompt string, cfg backend.GenerationConfig) (backend.GenerationResult, error) {
	f.lastPrompt = prompt
	f.lastCfg = cfg
	return f.gather()
}

func (f *fakeService) ChatCompletion(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (backend.GenerationResult, error) {
	f.lastMsgs = messages
	f.lastCfg = cfg
	return f.gather()
}

// frag builds an intermediate stream fragment.
func frag(text string) backend.GenerationResult {
	return backend.GenerationResult{Text: text, FinishReason: backend.FinishGenerating}
}

// result builds a terminal generation result.
func result(text, reason string, tokens int) backend.GenerationResult {
	return backend.GenerationResult{
		Text:            text,
		FinishReason:    reason,
		TokensGenerated: tokens,
		PromptTokens:    3,
	}
}

// loadedService returns a fake with a model loaded and a scripted reply.
func loadedService(results ...backend.GenerationResult) *fakeService {
	return &fakeService{
		engine:  "llamacpp",
		info:    &backend.ModelInfo{Name: "tiny-q4", SizeGB: 0.5, ContextLength: 4096},
		results: results,
	}
}

func testMux(svc Service) http.Handler {
	s := &server{svc: svc, hw: func() hardware.Info {
		return hardware.Info{
			Platform:               hardware.PlatformLinux,
			PlatformVersion:        "6.8.0",
			CPUBrand:               "Test CPU",
			CPUCores:               8,
			RAMGB:                  16,
			AvailableRAMGB:         8,
			GPU:                    hardware.GPU{Vendor: hardware.VendorNone, Name: "None"},
			RecommendedBackend:     hardware.BackendLlamaCPP,
			RecommendedModelSizeGB: 6.8,
		}
	}}
	return s.routes()
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

// sseEvents splits an SSE body into its data payloads.
func sseEvents(t *testing.T, body string) []string {
	t.Helper()
	var events []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") {
			events = append(events, strings.TrimPrefix(line, "data: "))
		}
	}
	return events
}
