package backend

import "context"

// Capability names a feature a runner may support.
type Capability string

const (
	CapStreaming       Capability = "streaming"
	CapBatch           Capability = "batch"
	CapEmbeddings      Capability = "embeddings"
	CapVision          Capability = "vision"
	CapFunctionCalling Capability = "function_calling"
)

// Runner is the contract every inference engine satisfies. Implementations
// own their model resource exclusively; a nil-model runner is "unloaded" and
// only LoadModel transitions it to "loaded". UnloadModel is idempotent.
//
// Generate and Chat return a finite stream of results. The returned channel
// carries zero or more intermediate results followed by exactly one terminal
// result, then closes. Failures before generation starts (no model loaded)
// are returned synchronously; failures mid-generation arrive in-stream as a
// terminal result with finish reason "error" so partial output already
// delivered stays usable.
type Runner interface {
	// Name identifies the engine (llamacpp, mlx, transformers).
	Name() string
	// Capabilities reports supported features. Pure, callable before load.
	Capabilities() []Capability
	// Available reports whether the engine's runtime dependency is present.
	// It never panics; any probe failure reads as unavailable.
	Available() bool
	// Loaded reports whether a model is currently loaded.
	Loaded() bool
	// Info returns the loaded model's descriptor, nil when unloaded.
	Info() *ModelInfo
	// LoadModel resolves ref (local path or repository reference) and loads
	// it. Fails with a NotFound, OutOfMemory, or Runtime error; never leaves
	// a partially loaded state. Callers unload any current model first.
	LoadModel(ctx context.Context, ref string, opts LoadOptions) (*ModelInfo, error)
	// UnloadModel releases the model and accelerator memory. Calling it with
	// no model loaded is a no-op.
	UnloadModel() error
	// Generate streams completion results for prompt. Fails synchronously
	// with a Runtime error when no model is loaded.
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (<-chan GenerationResult, error)
	// Chat streams a reply to the conversation. Engines with native chat
	// templates apply them and fall back to FormatMessages on failure.
	Chat(ctx context.Context, messages []Message, cfg GenerationConfig) (<-chan GenerationResult, error)
	// CountTokens tokenizes text with the loaded model's tokenizer.
	CountTokens(ctx context.Context, text string) (int, error)
	// StopGeneration requests cooperative cancellation of the in-flight
	// call. The stream observes it at its next yield boundary and ends with
	// one "stop" terminal result. Safe to call at any time, any number of
	// times; a fresh call clears the flag first.
	StopGeneration()
}
