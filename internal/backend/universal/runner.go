package universal

import (
	"context"
	"strings"
	"sync"

	"studiod/internal/backend"
	"studiod/internal/hardware"
)

const streamBuffer = 64

// Config carries runner construction knobs.
type Config struct {
	// Command launches the worker. Empty means discover studiod-worker or
	// python3 -m studiod_worker on PATH.
	Command []string
}

// Runner drives a transformers worker child process.
type Runner struct {
	command   []string
	probe     func() hardware.Info
	spawn     func(ctx context.Context, command []string) (worker, error)
	available func() bool

	mu         sync.Mutex
	w          worker
	info       *backend.ModelInfo
	device     string
	cancelLoad context.CancelFunc

	// opMu serializes worker round trips; the stop op bypasses it.
	opMu sync.Mutex
	stop backend.StopFlag
}

func New(cfg Config) *Runner {
	command := cfg.Command
	if len(command) == 0 {
		command = discoverWorker()
	}
	return &Runner{
		command:   command,
		probe:     hardware.Detect,
		spawn:     spawnWorker,
		available: func() bool { return len(command) > 0 },
	}
}

func (r *Runner) Name() string { return "transformers" }

func (r *Runner) Capabilities() []backend.Capability {
	return []backend.Capability{backend.CapStreaming, backend.CapEmbeddings}
}

// Available reports whether a worker launcher exists on this host.
func (r *Runner) Available() bool { return r.available() }

func (r *Runner) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w != nil
}

func (r *Runner) Info() *backend.ModelInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

// Device reports the torch device of the loaded model, "" when unloaded.
func (r *Runner) Device() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.device
}

// LoadModel spawns a fresh worker and has it load ref. The device is
// resolved from the hardware picture before the request goes out; the
// worker's loaded event can still correct it.
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

	device := resolveDevice(r.probe())
	quant, downgrade := resolveQuant(opts.Quantization, device)
	if downgrade != "" && zlog != nil {
		zlog.Warn().Str("device", device).Str("requested", opts.Quantization).Msg(downgrade)
	}

	opts.Report("Loading Transformers model...", 0.2)
	w, err := r.spawn(lctx, r.command)
	if err != nil {
		return nil, backend.ErrUnavailable("transformers worker failed to start: " + err.Error())
	}
	err = w.send(workerRequest{
		Op:            opLoad,
		Model:         ref,
		Device:        device,
		Quantization:  quant,
		ContextLength: opts.ContextLength,
	})
	if err != nil {
		w.stop()
		return nil, backend.ErrRuntime("failed to load model: " + err.Error())
	}

	ev, err := awaitLoaded(lctx, w)
	if err != nil {
		w.stop()
		return nil, err
	}
	if ev.Warning != "" && zlog != nil {
		zlog.Warn().Str("model", ref).Msg(ev.Warning)
	}
	if ev.Device != "" {
		device = ev.Device
	}

	name := ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		name = ref[i+1:]
	}
	ctxLen := ev.ContextLength
	if ctxLen <= 0 {
		ctxLen = opts.ContextLength
	}
	info := &backend.ModelInfo{
		Name:          name,
		Path:          ref,
		SizeGB:        0,
		ContextLength: ctxLen,
		VocabSize:     ev.VocabSize,
		Quantization:  quant,
	}

	r.mu.Lock()
	old := r.w
	r.w = w
	r.info = info
	r.device = device
	r.mu.Unlock()
	if old != nil {
		old.stop()
	}

	opts.Report("Ready", 1.0)
	if zlog != nil {
		zlog.Info().Str("model", info.Name).Str("device", device).Int("ctx", info.ContextLength).Msg("transformers model loaded")
	}
	return info, nil
}

// awaitLoaded reads worker events until the load resolves or ctx ends.
func awaitLoaded(ctx context.Context, w worker) (workerEvent, error) {
	type outcome struct {
		ev  workerEvent
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		for {
			ev, err := w.readEvent()
			if err != nil {
				ch <- outcome{err: backend.ErrRuntime("failed to load model: " + err.Error())}
				return
			}
			switch ev.Type {
			case evLoaded:
				ch <- outcome{ev: ev}
				return
			case evError:
				ch <- outcome{err: classifyWorkerError(ev.Message)}
				return
			}
		}
	}()
	select {
	case o := <-ch:
		return o.ev, o.err
	case <-ctx.Done():
		return workerEvent{}, backend.ErrCancelled("model load cancelled")
	}
}

// CancelLoad aborts an in-flight LoadModel.
func (r *Runner) CancelLoad() {
	r.mu.Lock()
	cancel := r.cancelLoad
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// UnloadModel terminates the worker; the process exit releases model,
// tokenizer and accelerator cache at once. Unloading an unloaded runner
// is a no-op.
func (r *Runner) UnloadModel() error {
	r.mu.Lock()
	w := r.w
	r.w = nil
	r.info = nil
	r.device = ""
	r.mu.Unlock()
	if w != nil {
		w.stop()
	}
	return nil
}

// StopGeneration raises the stop flag and tells the worker to wind down
// its current generation.
func (r *Runner) StopGeneration() {
	r.stop.Set()
	r.mu.Lock()
	w := r.w
	r.mu.Unlock()
	if w != nil {
		_ = w.send(workerRequest{Op: opStop})
	}
}

// worker returns the live child or the no-model error.
func (r *Runner) worker() (worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil, backend.ErrRuntime("no model loaded")
	}
	return r.w, nil
}

// classifyWorkerError sorts a worker-reported load failure into the
// error classes callers dispatch on.
func classifyWorkerError(msg string) error {
	if strings.Contains(strings.ToLower(msg), "out of memory") {
		return backend.ErrOutOfMemory("not enough memory to load model: " + msg)
	}
	return backend.ErrRuntime("failed to load model: " + msg)
}
