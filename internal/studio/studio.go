package studio

import (
	"sync"
	"time"

	"studiod/internal/backend"
	"studiod/internal/hardware"
)

// Studio owns the inference runners and arbitrates access to them. All
// methods are safe for concurrent use. The active engine is fixed at
// construction; loads replace the current model rather than adding one.
type Studio struct {
	runners map[string]backend.Runner
	order   []string
	active  backend.Runner

	publisher EventPublisher
	hw        func() hardware.Info

	maxWait      time.Duration
	drainTimeout time.Duration

	// queueCh bounds waiting requests; genCh is the single in-flight slot.
	// A request holds its queue slot until the generation slot is released.
	queueCh chan struct{}
	genCh   chan struct{}

	mu       sync.Mutex
	draining bool
}

// New constructs a Studio over the given runners. At least one runner is
// required; the active engine follows cfg.Engine.
func New(cfg Config, runners ...backend.Runner) *Studio {
	s := &Studio{
		runners:   make(map[string]backend.Runner, len(runners)),
		publisher: cfg.Publisher,
		hw:        cfg.Hardware,
	}
	for _, r := range runners {
		if _, dup := s.runners[r.Name()]; dup {
			continue
		}
		s.runners[r.Name()] = r
		s.order = append(s.order, r.Name())
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.hw == nil {
		s.hw = hardware.Detect
	}
	s.maxWait = cfg.MaxQueueWait
	if s.maxWait <= 0 {
		s.maxWait = defaultMaxQueueWait
	}
	s.drainTimeout = cfg.DrainTimeout
	if s.drainTimeout <= 0 {
		s.drainTimeout = defaultDrainTimeout
	}
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	s.queueCh = make(chan struct{}, depth)
	s.genCh = make(chan struct{}, 1)
	s.active = s.pickEngine(cfg.Engine)
	return s
}

// pickEngine resolves the configured engine name to a runner. Unknown or
// empty names follow the hardware recommendation, then the first available
// runner, then the first registered one.
func (s *Studio) pickEngine(name string) backend.Runner {
	if name != "" && name != "auto" {
		if r, ok := s.runners[name]; ok {
			return r
		}
		if zlog != nil {
			zlog.Warn().Str("engine", name).Msg("unknown engine, selecting automatically")
		}
	}
	if r, ok := s.runners[engineForRecommendation(hardware.RecommendBackend(s.hw()))]; ok && r.Available() {
		return r
	}
	for _, n := range s.order {
		if s.runners[n].Available() {
			return s.runners[n]
		}
	}
	if len(s.order) > 0 {
		return s.runners[s.order[0]]
	}
	return nil
}

// engineForRecommendation maps a hardware recommendation onto a runner
// name. vLLM is not shipped; its niche lands on the GGUF runner.
func engineForRecommendation(rec string) string {
	switch rec {
	case hardware.BackendMLX:
		return "mlx"
	case hardware.BackendTransformers:
		return "transformers"
	default:
		return "llamacpp"
	}
}

// Engine returns the active engine name.
func (s *Studio) Engine() string { return s.active.Name() }

// Available reports whether the active engine's runtime dependency is
// present.
func (s *Studio) Available() bool { return s.active.Available() }

// Loaded reports whether the active engine has a model loaded.
func (s *Studio) Loaded() bool { return s.active.Loaded() }

// Info returns the loaded model descriptor, nil when unloaded.
func (s *Studio) Info() *backend.ModelInfo { return s.active.Info() }

// Capabilities reports the active engine's feature set.
func (s *Studio) Capabilities() []backend.Capability { return s.active.Capabilities() }

// Stop requests cooperative cancellation of the in-flight generation.
func (s *Studio) Stop() { s.active.StopGeneration() }

// Close stops any in-flight generation and unloads the model. Used on
// daemon shutdown.
func (s *Studio) Close() error {
	s.active.StopGeneration()
	return s.Unload()
}

// Status is a point-in-time studio snapshot.
type Status struct {
	Engine    string
	Available bool
	Loaded    bool
	Model     *backend.ModelInfo
	Queued    int
	InFlight  int
	Draining  bool
}

// Status reports the active engine and queue occupancy.
func (s *Studio) Status() Status {
	s.mu.Lock()
	draining := s.draining
	s.mu.Unlock()
	return Status{
		Engine:    s.active.Name(),
		Available: s.active.Available(),
		Loaded:    s.active.Loaded(),
		Model:     s.active.Info(),
		Queued:    len(s.queueCh),
		InFlight:  len(s.genCh),
		Draining:  draining,
	}
}

func (s *Studio) modelName() string {
	if info := s.active.Info(); info != nil {
		return info.Name
	}
	return ""
}
