package backend

// Finish reasons carried by GenerationResult.
const (
	FinishGenerating = "generating"
	FinishStop       = "stop"
	FinishLength     = "length"
	FinishError      = "error"
)

// GenerationResult is one increment of a generation stream. Intermediate
// results carry FinishGenerating; the last result of every call carries a
// terminal reason.
type GenerationResult struct {
	// Text is the produced fragment; empty on placeholder/terminal results.
	Text string
	// TokensGenerated counts fragments so far; non-decreasing within a call.
	TokensGenerated int
	// TokensPerSecond is recomputed at each yield from wall-clock elapsed.
	TokensPerSecond float64
	// PromptTokens is set once, on whichever result the engine attaches
	// usage to (final for native engines).
	PromptTokens int
	// FinishReason is FinishGenerating until the terminal result.
	FinishReason string
}

// Terminal reports whether r ends its stream.
func (r GenerationResult) Terminal() bool {
	switch r.FinishReason {
	case FinishStop, FinishLength, FinishError:
		return true
	}
	return false
}

// ModelInfo describes a loaded model. A runner creates it once per
// successful load, replaces it on reload, and drops it on unload. Consumers
// treat it as read-only.
type ModelInfo struct {
	Name          string
	Path          string
	SizeGB        float64
	ContextLength int
	VocabSize     int
	// Quantization is a best-effort tag from the artifact name (Q4, F16, ...).
	Quantization string
	// Parameters is a best-effort count tag from the artifact name (7B, 70B, ...).
	Parameters string
}

// Message is one chat turn.
type Message struct {
	Role    string
	Content string
}
