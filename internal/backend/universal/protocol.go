package universal

import "studiod/internal/backend"

// Request ops the worker understands.
const (
	opLoad     = "load"
	opGenerate = "generate"
	opChat     = "chat"
	opCount    = "count"
	opStop     = "stop"
)

// Event types the worker emits.
const (
	evLoaded = "loaded"
	evToken  = "token"
	evDone   = "done"
	evError  = "error"
	evCount  = "count"
)

// workerRequest is one line written to the worker's stdin. Op selects
// which of the remaining fields matter.
type workerRequest struct {
	Op            string            `json:"op"`
	Model         string            `json:"model,omitempty"`
	Device        string            `json:"device,omitempty"`
	Quantization  string            `json:"quantization,omitempty"`
	ContextLength int               `json:"context_length,omitempty"`
	Prompt        string            `json:"prompt,omitempty"`
	Messages      []backend.Message `json:"messages,omitempty"`
	Text          string            `json:"text,omitempty"`
	MaxTokens     int               `json:"max_tokens,omitempty"`
	Temperature   float32           `json:"temperature,omitempty"`
	TopP          float32           `json:"top_p,omitempty"`
	TopK          int               `json:"top_k,omitempty"`
	Stream        bool              `json:"stream,omitempty"`
}

// workerEvent is one line read from the worker's stdout.
type workerEvent struct {
	Type          string `json:"type"`
	Text          string `json:"text,omitempty"`
	Message       string `json:"message,omitempty"`
	FinishReason  string `json:"finish_reason,omitempty"`
	Tokens        int    `json:"tokens,omitempty"`
	Device        string `json:"device,omitempty"`
	ContextLength int    `json:"context_length,omitempty"`
	VocabSize     int    `json:"vocab_size,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

// worker is one live child. send may be called concurrently with
// readEvent (the stop op arrives mid-generation); readEvent has a single
// reader at a time. Tests substitute their own.
type worker interface {
	send(req workerRequest) error
	readEvent() (workerEvent, error)
	stop()
}
