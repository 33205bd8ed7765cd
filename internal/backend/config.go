package backend

// GenerationConfig carries the sampling parameters of one generation call.
// A config is created fresh per request and never mutated during the call.
type GenerationConfig struct {
	MaxTokens     int
	Temperature   float32
	TopP          float32
	TopK          int
	RepeatPenalty float32
	Stop          []string
	Stream        bool
}

// DefaultConfig returns the stock sampling parameters.
func DefaultConfig() GenerationConfig {
	return GenerationConfig{
		MaxTokens:     2048,
		Temperature:   0.7,
		TopP:          0.9,
		TopK:          40,
		RepeatPenalty: 1.1,
		Stream:        true,
	}
}

// ProgressFunc receives load-phase updates: a status line and a completion
// fraction in [0,1].
type ProgressFunc func(status string, fraction float64)

// LoadOptions tunes LoadModel. The zero value is usable; unset fields take
// engine defaults.
type LoadOptions struct {
	// ContextLength is the context window in tokens; 0 means 4096.
	ContextLength int
	// AcceleratorLayers moved to the accelerator: -1 all, 0 CPU only.
	AcceleratorLayers int
	// Threads for CPU inference; 0 auto-detects min(cores, 8).
	Threads int
	// Quantization requests 4bit/8bit loading where the engine supports it
	// (universal runner, dedicated accelerator only).
	Quantization string
	// Verbose enables engine-level load logging.
	Verbose bool
	// Progress, when set, receives phase updates during load.
	Progress ProgressFunc
}

// DefaultLoadOptions returns LoadOptions with the documented defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		ContextLength:     4096,
		AcceleratorLayers: -1,
	}
}

// Normalize fills unset fields with defaults and returns the result.
func (o LoadOptions) Normalize() LoadOptions {
	if o.ContextLength <= 0 {
		o.ContextLength = 4096
	}
	return o
}

// Report invokes the progress callback when one is set.
func (o LoadOptions) Report(status string, fraction float64) {
	if o.Progress != nil {
		o.Progress(status, fraction)
	}
}
