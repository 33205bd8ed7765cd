package llamacpp

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"studiod/internal/backend"
)

// fakeEngine scripts Predict output and records how it was driven.
type fakeEngine struct {
	mu        sync.Mutex
	prompts   []string
	cfgs      []backend.GenerationConfig
	closed    int
	fragments []string
	reason    string
	err       error
	vocab     int
}

func (f *fakeEngine) Predict(ctx context.Context, prompt string, cfg backend.GenerationConfig, onToken func(string) bool) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.cfgs = append(f.cfgs, cfg)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	for _, frag := range f.fragments {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !onToken(frag) {
			return "", nil
		}
	}
	return f.reason, nil
}

func (f *fakeEngine) VocabSize() int { return f.vocab }

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeEngine) closedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeEngine) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// newTestRunner wires a runner to eng, bypassing the build flavor.
func newTestRunner(eng *fakeEngine) *Runner {
	r := New(nil)
	r.available = func() bool { return true }
	r.open = func(_ context.Context, _ string, _ backend.LoadOptions) (engine, error) {
		return eng, nil
	}
	return r
}

// loadTestModel writes a dummy artifact and loads it into r.
func loadTestModel(t *testing.T, r *Runner, name string) *backend.ModelInfo {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("gguf-bytes"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	info, err := r.LoadModel(context.Background(), path, backend.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	return info
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
