package mlx

import (
	"context"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"studiod/internal/backend"
)

const streamBuffer = 64

// Runner drives an mlx_lm.server child through its OpenAI surface.
type Runner struct {
	spawn     spawnFunc
	available func() bool

	mu         sync.Mutex
	proc       serverHandle
	client     *openai.Client
	model      string
	info       *backend.ModelInfo
	cancelLoad context.CancelFunc

	stop backend.StopFlag
}

func New() *Runner {
	return &Runner{spawn: spawnServer, available: launcherAvailable}
}

func (r *Runner) Name() string { return "mlx" }

func (r *Runner) Capabilities() []backend.Capability {
	return []backend.Capability{backend.CapStreaming}
}

// Available reports whether this host can run the engine.
func (r *Runner) Available() bool { return r.available() }

func (r *Runner) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.proc != nil
}

func (r *Runner) Info() *backend.ModelInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

// LoadModel starts an engine child for ref and waits until it serves.
// ref is a repo reference; the child resolves and downloads it with its
// own machinery, so there is no local path to report. SizeGB stays 0:
// the engine manages unified memory dynamically.
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

	opts.Report("Starting MLX engine...", 0.2)
	proc, err := r.spawn(lctx, ref, opts)
	if err != nil {
		return nil, classifyLoadError(lctx, err)
	}

	name := ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		name = ref[i+1:]
	}
	info := &backend.ModelInfo{
		Name:          name,
		Path:          ref,
		SizeGB:        0,
		ContextLength: opts.ContextLength,
		Quantization:  backend.QuantFromName(name),
		Parameters:    backend.ParamsFromName(name),
	}

	cfg := openai.DefaultConfig("studiod")
	cfg.BaseURL = proc.baseURL() + "/v1"
	client := openai.NewClientWithConfig(cfg)

	r.mu.Lock()
	old := r.proc
	r.proc = proc
	r.client = client
	r.model = ref
	r.info = info
	r.mu.Unlock()
	if old != nil {
		old.stop()
	}

	opts.Report("Ready", 1.0)
	if zlog != nil {
		zlog.Info().Str("model", info.Name).Str("quant", info.Quantization).Msg("mlx model loaded")
	}
	return info, nil
}

// CancelLoad aborts an in-flight LoadModel, including the child's own
// model download.
func (r *Runner) CancelLoad() {
	r.mu.Lock()
	cancel := r.cancelLoad
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// UnloadModel terminates the engine child. The child's exit releases its
// accelerator cache; there is nothing further to free on this side.
// Unloading an unloaded runner is a no-op.
func (r *Runner) UnloadModel() error {
	r.mu.Lock()
	proc := r.proc
	r.proc = nil
	r.client = nil
	r.model = ""
	r.info = nil
	r.mu.Unlock()
	if proc != nil {
		proc.stop()
	}
	return nil
}

// StopGeneration raises the stop flag; the active generation ends with a
// stop terminal at its next fragment boundary.
func (r *Runner) StopGeneration() { r.stop.Set() }

// session snapshots the client state a generation call needs.
func (r *Runner) session() (*openai.Client, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil, "", backend.ErrRuntime("no model loaded")
	}
	return r.client, r.model, nil
}

// classifyLoadError sorts a spawn failure into the error classes callers
// dispatch on.
func classifyLoadError(ctx context.Context, err error) error {
	if backend.IsUnavailable(err) || backend.IsOutOfMemory(err) || backend.IsCancelled(err) {
		return err
	}
	if ctx.Err() != nil {
		return backend.ErrCancelled("model load cancelled")
	}
	if strings.Contains(strings.ToLower(err.Error()), "out of memory") {
		return backend.ErrOutOfMemory("not enough memory to load model: " + err.Error())
	}
	return backend.ErrRuntime("failed to load model: " + err.Error())
}
