//go:build llama && !llama_server

package llamacpp

import (
	"context"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"studiod/internal/backend"
)

// engineAvailable: the CGO binding is compiled in.
var engineAvailable = func() bool { return true }

// defaultEngine loads the model in-process through go-llama.cpp. The load
// itself is a blocking C call and cannot be cancelled.
var defaultEngine openEngine = func(_ context.Context, path string, opts backend.LoadOptions) (engine, error) {
	mo := []llama.ModelOption{llama.SetContext(opts.ContextLength)}
	if opts.AcceleratorLayers > 0 {
		mo = append(mo, llama.SetGPULayers(opts.AcceleratorLayers))
	}
	m, err := llama.New(path, mo...)
	if err != nil {
		return nil, err
	}
	return &cgoEngine{model: m, threads: opts.Threads}, nil
}

type cgoEngine struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
}

func (e *cgoEngine) Predict(ctx context.Context, prompt string, cfg backend.GenerationConfig, onToken func(string) bool) (string, error) {
	e.mu.Lock()
	model := e.model
	e.mu.Unlock()
	if model == nil {
		return "", backend.ErrRuntime("engine closed")
	}

	model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		return onToken(tok)
	})
	if _, err := model.Predict(prompt, predictOptions(cfg, e.threads)...); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	// The binding reports no finish reason; the runner derives one.
	return "", nil
}

// VocabSize is not exposed by the binding.
func (e *cgoEngine) VocabSize() int { return 0 }

func (e *cgoEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// predictOptions converts a GenerationConfig into go-llama.cpp options,
// falling back to the binding's defaults for unset sampling knobs.
func predictOptions(cfg backend.GenerationConfig, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(max(1, cfg.MaxTokens)),
		llama.SetThreads(max(1, threads)),
		llama.SetTopP(zf(cfg.TopP, llama.DefaultOptions.TopP)),
		llama.SetTopK(zn(cfg.TopK, llama.DefaultOptions.TopK)),
		llama.SetTemperature(zf(cfg.Temperature, llama.DefaultOptions.Temperature)),
		llama.SetPenalty(zf(cfg.RepeatPenalty, llama.DefaultOptions.Penalty)),
	}
	if len(cfg.Stop) > 0 {
		po = append(po, llama.SetStopWords(cfg.Stop...))
	}
	return po
}
