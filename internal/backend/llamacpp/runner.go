package llamacpp

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"studiod/internal/backend"
	"studiod/internal/hub"
)

// streamBuffer decouples the engine callback from the consumer; the engine
// keeps producing while slow consumers catch up.
const streamBuffer = 64

// Runner drives llama.cpp through whichever engine flavor was built in.
type Runner struct {
	hub       *hub.Client
	open      openEngine
	available func() bool

	mu         sync.Mutex
	eng        engine
	info       *backend.ModelInfo
	cancelLoad context.CancelFunc

	stop backend.StopFlag
}

// New constructs the runner. h may be nil; then only local model paths
// load.
func New(h *hub.Client) *Runner {
	return &Runner{hub: h, open: defaultEngine, available: engineAvailable}
}

func (r *Runner) Name() string { return "llamacpp" }

func (r *Runner) Capabilities() []backend.Capability {
	return []backend.Capability{backend.CapStreaming, backend.CapBatch}
}

// Available reports whether this build carries a usable engine.
func (r *Runner) Available() bool { return r.available() }

func (r *Runner) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng != nil
}

func (r *Runner) Info() *backend.ModelInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

// LoadModel resolves ref, opens an engine for it and swaps it in. A model
// already loaded is replaced; its engine is closed after the new one is
// live.
func (r *Runner) LoadModel(ctx context.Context, ref string, opts backend.LoadOptions) (*backend.ModelInfo, error) {
	opts = opts.Normalize()

	lctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancelLoad = cancel
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.cancelLoad = nil
		r.mu.Unlock()
		cancel()
	}()

	path, err := r.resolve(lctx, ref, opts)
	if err != nil {
		return nil, err
	}

	sizeGB, err := fileSizeGB(path)
	if err != nil {
		return nil, backend.ErrNotFound(path)
	}
	opts.Report(fmt.Sprintf("Loading %.1fGB into memory...", sizeGB), 0.8)

	if opts.Threads <= 0 {
		opts.Threads = autoThreads()
	}
	eng, err := r.open(lctx, path, opts)
	if err != nil {
		return nil, classifyLoadError(err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	info := &backend.ModelInfo{
		Name:          name,
		Path:          path,
		SizeGB:        math.Round(sizeGB*100) / 100,
		ContextLength: opts.ContextLength,
		VocabSize:     eng.VocabSize(),
		Quantization:  backend.QuantFromName(name),
		Parameters:    backend.ParamsFromName(name),
	}

	r.mu.Lock()
	old := r.eng
	r.eng = eng
	r.info = info
	r.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	opts.Report("Ready", 1.0)
	if zlog != nil {
		zlog.Info().Str("model", info.Name).Float64("size_gb", info.SizeGB).Int("ctx", info.ContextLength).Msg("model loaded")
	}
	return info, nil
}

// CancelLoad aborts an in-flight LoadModel, including its download.
func (r *Runner) CancelLoad() {
	r.mu.Lock()
	cancel := r.cancelLoad
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// UnloadModel closes the engine and drops the model info. Unloading an
// unloaded runner is a no-op.
func (r *Runner) UnloadModel() error {
	r.mu.Lock()
	eng := r.eng
	r.eng = nil
	r.info = nil
	r.mu.Unlock()
	if eng != nil {
		return eng.Close()
	}
	return nil
}

// Generate streams completion fragments for prompt. The returned channel
// carries zero or more intermediate results and always ends with exactly
// one terminal result, after which it is closed. Consumers read until
// close.
func (r *Runner) Generate(ctx context.Context, prompt string, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	r.mu.Lock()
	eng := r.eng
	r.mu.Unlock()
	if eng == nil {
		return nil, backend.ErrRuntime("no model loaded")
	}
	r.stop.Clear()
	out := make(chan backend.GenerationResult, streamBuffer)
	go r.produce(ctx, eng, prompt, cfg, out)
	return out, nil
}

// Chat renders the transcript with the default role-tagged format and
// completes it. llama.cpp applies no model chat template through this
// binding, so the fallback format is the format.
func (r *Runner) Chat(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	return r.Generate(ctx, backend.FormatMessages(messages), cfg)
}

// CountTokens estimates. The binding exposes no tokenizer, and four bytes
// per token is close enough for budget checks.
func (r *Runner) CountTokens(_ context.Context, text string) (int, error) {
	if !r.Loaded() {
		return 0, backend.ErrRuntime("no model loaded")
	}
	return len(text) / 4, nil
}

// StopGeneration raises the stop flag; the active generation ends with a
// stop terminal at its next fragment boundary.
func (r *Runner) StopGeneration() { r.stop.Set() }

// produce runs one generation and feeds out, closing it when done.
func (r *Runner) produce(ctx context.Context, eng engine, prompt string, cfg backend.GenerationConfig, out chan<- backend.GenerationResult) {
	defer close(out)
	start := time.Now()
	tokens := 0
	halted := false
	var full strings.Builder

	onToken := func(frag string) bool {
		if r.stop.IsSet() || ctx.Err() != nil {
			halted = true
			return false
		}
		tokens++
		if !cfg.Stream {
			full.WriteString(frag)
			return true
		}
		res := backend.GenerationResult{
			Text:            frag,
			TokensGenerated: tokens,
			TokensPerSecond: tokensPerSec(start, tokens),
			FinishReason:    backend.FinishGenerating,
		}
		select {
		case out <- res:
			return true
		case <-ctx.Done():
			halted = true
			return false
		}
	}

	reason, err := eng.Predict(ctx, prompt, cfg, onToken)

	if halted || ctx.Err() != nil {
		out <- backend.GenerationResult{
			TokensGenerated: tokens,
			TokensPerSecond: tokensPerSec(start, tokens),
			FinishReason:    backend.FinishStop,
		}
		return
	}
	if err != nil {
		out <- backend.GenerationResult{
			Text:            "Error: " + err.Error(),
			TokensGenerated: tokens,
			FinishReason:    backend.FinishError,
		}
		return
	}

	if reason != backend.FinishStop && reason != backend.FinishLength {
		reason = backend.FinishStop
		if cfg.MaxTokens > 0 && tokens >= cfg.MaxTokens {
			reason = backend.FinishLength
		}
	}
	final := backend.GenerationResult{
		TokensGenerated: tokens,
		TokensPerSecond: tokensPerSec(start, tokens),
		FinishReason:    reason,
	}
	if !cfg.Stream {
		final.Text = full.String()
	}
	out <- final
}

// autoThreads caps inference threads; llama.cpp scales poorly past eight.
func autoThreads() int {
	n := runtime.NumCPU()
	if n > 8 {
		return 8
	}
	return n
}

func tokensPerSec(start time.Time, tokens int) float64 {
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return math.Round(float64(tokens)/elapsed*10) / 10
}
