// Package catalog carries the curated model table: known-good GGUF builds
// with enough metadata to pick one for the machine at hand.
package catalog

// Category buckets models by parameter scale and the hardware tier they
// need.
type Category string

const (
	Tiny   Category = "tiny"   // 1-3B, runs on anything
	Small  Category = "small"  // 7-8B, 8GB+ RAM
	Medium Category = "medium" // 13-14B, 16GB+ RAM
	Large  Category = "large"  // 30-34B, 32GB+ RAM
	XL     Category = "xl"     // 70B+, 64GB+ RAM
	XXL    Category = "xxl"    // 100B+, multi-GPU
)

// ModelType tags what a model was tuned for.
type ModelType string

const (
	Chat      ModelType = "chat"
	Instruct  ModelType = "instruct"
	Code      ModelType = "code"
	Reasoning ModelType = "reasoning"
	Base      ModelType = "base"
)

// MemoryHeadroom is the fraction of available memory a model may claim.
// The remainder covers KV cache and runtime overhead.
const MemoryHeadroom = 0.85

// Entry is one curated model.
type Entry struct {
	Name          string
	Repo          string
	Description   string
	Category      Category
	Type          ModelType
	SizeGB        float64
	ContextLength int
	Parameters    string
	Format        string
	Quantization  string
	Recommended   bool
}

// FitsMemory reports whether the entry loads comfortably in availableGB.
func (e Entry) FitsMemory(availableGB float64) bool {
	return e.SizeGB <= availableGB*MemoryHeadroom
}

var models = []Entry{
	// Tiny (1-3B)
	{
		Name:          "TinyLlama 1.1B",
		Repo:          "TheBloke/TinyLlama-1.1B-Chat-v1.0-GGUF",
		Description:   "Ultra-compact chat model, runs anywhere",
		Category:      Tiny,
		Type:          Chat,
		SizeGB:        0.6,
		ContextLength: 2048,
		Parameters:    "1.1B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},
	{
		Name:          "Phi-3.5 Mini",
		Repo:          "bartowski/Phi-3.5-mini-instruct-GGUF",
		Description:   "Microsoft's compact powerhouse, excellent reasoning",
		Category:      Tiny,
		Type:          Instruct,
		SizeGB:        2.2,
		ContextLength: 128000,
		Parameters:    "3.8B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
		Recommended:   true,
	},
	{
		Name:          "Qwen2.5 3B",
		Repo:          "Qwen/Qwen2.5-3B-Instruct-GGUF",
		Description:   "Alibaba's efficient multilingual model",
		Category:      Tiny,
		Type:          Instruct,
		SizeGB:        1.8,
		ContextLength: 32768,
		Parameters:    "3B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},

	// Small (7-8B)
	{
		Name:          "Llama 3.1 8B Instruct",
		Repo:          "bartowski/Meta-Llama-3.1-8B-Instruct-GGUF",
		Description:   "Meta's flagship small model, excellent all-rounder",
		Category:      Small,
		Type:          Instruct,
		SizeGB:        4.7,
		ContextLength: 131072,
		Parameters:    "8B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
		Recommended:   true,
	},
	{
		Name:          "Qwen3 8B",
		Repo:          "Qwen/Qwen3-8B-GGUF",
		Description:   "Best overall quality for 8GB systems",
		Category:      Small,
		Type:          Chat,
		SizeGB:        4.5,
		ContextLength: 32768,
		Parameters:    "8B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
		Recommended:   true,
	},
	{
		Name:          "Mistral 7B Instruct",
		Repo:          "TheBloke/Mistral-7B-Instruct-v0.2-GGUF",
		Description:   "Fast and capable, great for code",
		Category:      Small,
		Type:          Instruct,
		SizeGB:        4.1,
		ContextLength: 32768,
		Parameters:    "7B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},
	{
		Name:          "DeepSeek Coder 6.7B",
		Repo:          "TheBloke/deepseek-coder-6.7B-instruct-GGUF",
		Description:   "Specialized for coding tasks",
		Category:      Small,
		Type:          Code,
		SizeGB:        3.8,
		ContextLength: 16384,
		Parameters:    "6.7B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},

	// Medium (13-14B)
	{
		Name:          "Qwen2.5 14B Instruct",
		Repo:          "Qwen/Qwen2.5-14B-Instruct-GGUF",
		Description:   "Excellent balance of quality and speed",
		Category:      Medium,
		Type:          Instruct,
		SizeGB:        8.3,
		ContextLength: 131072,
		Parameters:    "14B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
		Recommended:   true,
	},
	{
		Name:          "Llama 2 13B Chat",
		Repo:          "TheBloke/Llama-2-13B-chat-GGUF",
		Description:   "Proven reliable, good for chat",
		Category:      Medium,
		Type:          Chat,
		SizeGB:        7.4,
		ContextLength: 4096,
		Parameters:    "13B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},

	// Large (30-34B)
	{
		Name:          "DeepSeek 33B Instruct",
		Repo:          "TheBloke/deepseek-llm-33b-instruct-GGUF",
		Description:   "Strong reasoning and instruction following",
		Category:      Large,
		Type:          Instruct,
		SizeGB:        19.0,
		ContextLength: 4096,
		Parameters:    "33B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},
	{
		Name:          "CodeLlama 34B Instruct",
		Repo:          "TheBloke/CodeLlama-34B-Instruct-GGUF",
		Description:   "Meta's best coding model",
		Category:      Large,
		Type:          Code,
		SizeGB:        19.5,
		ContextLength: 16384,
		Parameters:    "34B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},

	// XL (70B+)
	{
		Name:          "Llama 3.1 70B Instruct",
		Repo:          "bartowski/Meta-Llama-3.1-70B-Instruct-GGUF",
		Description:   "Meta's most capable open model",
		Category:      XL,
		Type:          Instruct,
		SizeGB:        40.0,
		ContextLength: 131072,
		Parameters:    "70B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
		Recommended:   true,
	},
	{
		Name:          "Qwen2.5 72B Instruct",
		Repo:          "Qwen/Qwen2.5-72B-Instruct-GGUF",
		Description:   "Alibaba's flagship, excellent at everything",
		Category:      XL,
		Type:          Instruct,
		SizeGB:        42.0,
		ContextLength: 131072,
		Parameters:    "72B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},
	{
		Name:          "DeepSeek R1 70B (Distilled)",
		Repo:          "bartowski/DeepSeek-R1-Distill-Llama-70B-GGUF",
		Description:   "Advanced reasoning capabilities",
		Category:      XL,
		Type:          Reasoning,
		SizeGB:        40.0,
		ContextLength: 32768,
		Parameters:    "70B",
		Format:        "GGUF",
		Quantization:  "Q4_K_M",
	},
}

// All returns the full table. Callers get a copy; the table itself is
// immutable.
func All() []Entry {
	out := make([]Entry, len(models))
	copy(out, models)
	return out
}
