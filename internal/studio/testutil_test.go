package studio

import (
	"context"
	"sync"
	"testing"
	"time"

	"studiod/internal/backend"
	"studiod/internal/hardware"
)

// fakeRunner is a scriptable backend.Runner that records its calls.
type fakeRunner struct {
	name      string
	available bool

	mu      sync.Mutex
	info    *backend.ModelInfo
	loadErr error
	calls   []string
	cfg     backend.GenerationConfig
	prompt  string
	msgs    []backend.Message
	stops   int

	// Stream script: fragments, then an optional park on gate, then one
	// terminal result carrying reason.
	fragments []string
	reason    string
	gate      chan struct{}
}

func newFake(name string) *fakeRunner {
	return &fakeRunner{name: name, available: true, reason: backend.FinishStop}
}

func (f *fakeRunner) Name() string { return f.name }

func (f *fakeRunner) Capabilities() []backend.Capability {
	return []backend.Capability{backend.CapStreaming}
}

func (f *fakeRunner) Available() bool { return f.available }

func (f *fakeRunner) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info != nil
}

func (f *fakeRunner) Info() *backend.ModelInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info
}

func (f *fakeRunner) LoadModel(ctx context.Context, ref string, opts backend.LoadOptions) (*backend.ModelInfo, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "load "+ref)
	err := f.loadErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	opts.Report("Ready", 1.0)
	info := &backend.ModelInfo{Name: ref, SizeGB: 0.5, ContextLength: 4096}
	f.mu.Lock()
	f.info = info
	f.mu.Unlock()
	return info, nil
}

func (f *fakeRunner) UnloadModel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "unload")
	f.info = nil
	return nil
}

func (f *fakeRunner) Generate(ctx context.Context, prompt string, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	f.mu.Lock()
	f.prompt = prompt
	f.cfg = cfg
	f.mu.Unlock()
	return f.stream(ctx)
}

func (f *fakeRunner) Chat(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	f.mu.Lock()
	f.msgs = append([]backend.Message(nil), messages...)
	f.cfg = cfg
	f.mu.Unlock()
	return f.stream(ctx)
}

func (f *fakeRunner) stream(ctx context.Context) (<-chan backend.GenerationResult, error) {
	f.mu.Lock()
	loaded := f.info != nil
	frags := append([]string(nil), f.fragments...)
	reason := f.reason
	gate := f.gate
	f.mu.Unlock()
	if !loaded {
		return nil, backend.ErrRuntime("no model loaded")
	}
	out := make(chan backend.GenerationResult, 16)
	go func() {
		defer close(out)
		n := 0
		for _, frag := range frags {
			if ctx.Err() != nil {
				out <- backend.GenerationResult{TokensGenerated: n, FinishReason: backend.FinishStop}
				return
			}
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

func (f *fakeRunner) CountTokens(ctx context.Context, text string) (int, error) {
	if !f.Loaded() {
		return 0, backend.ErrRuntime("no model loaded")
	}
	return len(text), nil
}

func (f *fakeRunner) StopGeneration() {
	f.mu.Lock()
	f.stops++
	f.mu.Unlock()
}

func (f *fakeRunner) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func (f *fakeRunner) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func cpuHW() hardware.Info {
	return hardware.Info{Platform: hardware.PlatformLinux, CPUCores: 8, RAMGB: 16, AvailableRAMGB: 8}
}

func appleHW() hardware.Info {
	return hardware.Info{
		Platform:       hardware.PlatformMacOS,
		RAMGB:          16,
		AvailableRAMGB: 8,
		GPU: hardware.GPU{
			Vendor:         hardware.VendorApple,
			Name:           "Apple M3",
			VRAMGB:         12,
			MetalAvailable: true,
		},
	}
}

// newStudio wires a studio over the runners with a memory publisher and a
// CPU-only hardware stub unless the config says otherwise.
func newStudio(t *testing.T, cfg Config, runners ...backend.Runner) (*Studio, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	cfg.Publisher = pub
	if cfg.Hardware == nil {
		cfg.Hardware = cpuHW
	}
	return New(cfg, runners...), pub
}

func loadModel(t *testing.T, s *Studio, ref string) {
	t.Helper()
	if _, err := s.Load(context.Background(), ref, backend.DefaultLoadOptions()); err != nil {
		t.Fatalf("Load(%q): %v", ref, err)
	}
}

func collect(t *testing.T, ch <-chan backend.GenerationResult) []backend.GenerationResult {
	t.Helper()
	var out []backend.GenerationResult
	deadline := time.After(5 * time.Second)
	for {
		select {
		case res, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, res)
		case <-deadline:
			t.Fatalf("stream did not close, got %d results", len(out))
		}
	}
}

func checkTerminal(t *testing.T, results []backend.GenerationResult) backend.GenerationResult {
	t.Helper()
	if len(results) == 0 {
		t.Fatalf("empty stream")
	}
	for i, res := range results[:len(results)-1] {
		if res.Terminal() {
			t.Fatalf("result %d is terminal before the last", i)
		}
	}
	last := results[len(results)-1]
	if !last.Terminal() {
		t.Fatalf("last result not terminal: %+v", last)
	}
	return last
}
