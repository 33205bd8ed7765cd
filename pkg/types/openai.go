package types

// ChatMessage is a single turn in a chat conversation.
type ChatMessage struct {
	// Role of the author (system, user, assistant).
	// example: user
	Role string `json:"role" example:"user"`
	// Message content.
	// example: Write a haiku about the ocean.
	Content string `json:"content" example:"Write a haiku about the ocean."`
}

// ChatCompletionRequest is the body of POST /v1/chat/completions.
type ChatCompletionRequest struct {
	// Model identifier; informational, generation uses the loaded model.
	// example: Meta-Llama-3.1-8B-Instruct-Q4_K_M
	Model string `json:"model,omitempty" example:"Meta-Llama-3.1-8B-Instruct-Q4_K_M"`
	// Conversation so far.
	Messages []ChatMessage `json:"messages"`
	// If true, respond with Server-Sent Events chunks.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
	// Maximum number of new tokens to generate.
	// example: 2048
	MaxTokens int `json:"max_tokens,omitempty" example:"2048"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature float32 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float32 `json:"top_p,omitempty" example:"0.9"`
	// Top-K sampling: limit candidates to the top K tokens.
	// example: 40
	TopK int `json:"top_k,omitempty" example:"40"`
	// Repeat penalty; 1.0 disables.
	// example: 1.1
	RepeatPenalty float32 `json:"repeat_penalty,omitempty" example:"1.1"`
	// Optional stop sequences. Generation stops when any sequence is matched.
	Stop []string `json:"stop,omitempty"`
}

// ChatCompletionResponse is the non-streaming reply of /v1/chat/completions.
type ChatCompletionResponse struct {
	// Request identifier.
	// example: chatcmpl-1a2b3c4d
	ID string `json:"id" example:"chatcmpl-1a2b3c4d"`
	// Always "chat.completion".
	// example: chat.completion
	Object string `json:"object" example:"chat.completion"`
	// Creation time (unix seconds).
	// example: 1700000000
	Created int64 `json:"created" example:"1700000000"`
	// Name of the model that produced the reply.
	// example: Meta-Llama-3.1-8B-Instruct-Q4_K_M
	Model   string       `json:"model" example:"Meta-Llama-3.1-8B-Instruct-Q4_K_M"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ChatChoice is one alternative in a chat completion response.
type ChatChoice struct {
	// Choice index, always 0 here.
	// example: 0
	Index   int         `json:"index" example:"0"`
	Message ChatMessage `json:"message"`
	// Why generation ended (stop, length, error).
	// example: stop
	FinishReason string `json:"finish_reason" example:"stop"`
}

// ChatCompletionChunk is one SSE event of a streaming chat completion.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice carries the incremental delta of a streamed choice.
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

// ChunkDelta is the incremental payload inside a streamed choice.
type ChunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// CompletionRequest is the body of POST /v1/completions.
type CompletionRequest struct {
	// Model identifier; informational, generation uses the loaded model.
	Model string `json:"model,omitempty"`
	// Prompt text to complete.
	// example: Once upon a time
	Prompt string `json:"prompt" example:"Once upon a time"`
	// If true, respond with Server-Sent Events chunks.
	// example: false
	Stream bool `json:"stream,omitempty" example:"false"`
	// Maximum number of new tokens to generate.
	// example: 2048
	MaxTokens int `json:"max_tokens,omitempty" example:"2048"`
	// Sampling temperature.
	// example: 0.7
	Temperature float32 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float32 `json:"top_p,omitempty" example:"0.9"`
	// Top-K sampling.
	// example: 40
	TopK int `json:"top_k,omitempty" example:"40"`
	// Repeat penalty; 1.0 disables.
	// example: 1.1
	RepeatPenalty float32 `json:"repeat_penalty,omitempty" example:"1.1"`
	// Optional stop sequences.
	Stop []string `json:"stop,omitempty"`
}

// CompletionResponse is the reply of /v1/completions (sync and stream chunks
// share the shape; stream chunks omit usage).
type CompletionResponse struct {
	// Request identifier.
	// example: cmpl-1a2b3c4d
	ID string `json:"id" example:"cmpl-1a2b3c4d"`
	// Always "text_completion".
	// example: text_completion
	Object  string             `json:"object" example:"text_completion"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   *Usage             `json:"usage,omitempty"`
}

// CompletionChoice is one alternative in a text completion response.
type CompletionChoice struct {
	// Generated text (full text when sync, fragment when streamed).
	Text  string `json:"text"`
	Index int    `json:"index"`
	// Why generation ended; null on intermediate stream chunks.
	FinishReason *string `json:"finish_reason"`
}

// Usage reports token accounting for one request.
type Usage struct {
	// Tokens in the prompt.
	// example: 12
	PromptTokens int `json:"prompt_tokens" example:"12"`
	// Tokens generated for the reply.
	// example: 48
	CompletionTokens int `json:"completion_tokens" example:"48"`
	// Sum of prompt and completion tokens.
	// example: 60
	TotalTokens int `json:"total_tokens" example:"60"`
}

// ModelList is the reply of GET /v1/models.
type ModelList struct {
	// Always "list".
	// example: list
	Object string        `json:"object" example:"list"`
	Data   []ModelObject `json:"data"`
}

// ModelObject describes one model in the /v1/models listing.
type ModelObject struct {
	// Model identifier (loaded model name or catalogue repo id).
	// example: bartowski/Meta-Llama-3.1-8B-Instruct-GGUF
	ID string `json:"id" example:"bartowski/Meta-Llama-3.1-8B-Instruct-GGUF"`
	// Always "model".
	// example: model
	Object string `json:"object" example:"model"`
	// Listing time (unix seconds).
	Created int64 `json:"created"`
	// "local" for the loaded model, "huggingface" for catalogue entries.
	// example: huggingface
	OwnedBy string `json:"owned_by" example:"huggingface"`
	// Extra catalogue metadata; absent for the loaded model entry.
	Metadata *ModelMetadata `json:"metadata,omitempty"`
}

// ModelMetadata carries catalogue details for a listed model.
type ModelMetadata struct {
	// Display name.
	// example: Llama 3.1 8B Instruct
	Name string `json:"name" example:"Llama 3.1 8B Instruct"`
	// Parameter count tag.
	// example: 8B
	Parameters string `json:"parameters" example:"8B"`
	// Artifact size in GB.
	// example: 4.7
	SizeGB float64 `json:"size_gb" example:"4.7"`
	// Context window length in tokens.
	// example: 131072
	ContextLength int `json:"context_length" example:"131072"`
}

// APIError is the OpenAI-style error payload nested in ErrorEnvelope.
type APIError struct {
	// Human-readable message.
	// example: No model loaded. Use /load endpoint first.
	Message string `json:"message" example:"No model loaded. Use /load endpoint first."`
	// Error class.
	// example: invalid_request_error
	Type string `json:"type" example:"invalid_request_error"`
	// Machine-readable code.
	// example: model_not_loaded
	Code string `json:"code,omitempty" example:"model_not_loaded"`
}

// ErrorEnvelope wraps APIError the way OpenAI clients expect.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
