// Package mlx implements the Apple silicon runner on top of an
// mlx_lm.server child process. The child speaks the OpenAI wire protocol
// on localhost; the runner drives it through the go-openai client, so
// generation, chat templating and token counting all run inside the
// engine's own Python process.
//
// Files:
// - runner.go: the backend.Runner implementation and model lifecycle
// - generate.go: completion/chat streaming through the OpenAI client
// - process.go: child process spawn, readiness wait and shutdown
// - logging.go: optional structured logger hookup
package mlx
