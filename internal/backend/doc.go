// Package backend defines the contract every inference engine must satisfy
// and the value types shared across engines. It is structured into small
// files by concern:
//
//   - backend.go: the Runner interface and capability set.
//   - config.go: GenerationConfig defaults and LoadOptions.
//   - result.go: GenerationResult, ModelInfo, Message.
//   - errors.go: load/generation error taxonomy and predicates.
//   - stop.go: the cooperative StopFlag checked at yield boundaries.
//   - chat.go: default role-tagged transcript formatting.
//   - tags.go: best-effort quantization/parameter tags from filenames.
//
// Concrete engines live in subpackages (llamacpp, mlx, universal). Each owns
// its model resource exclusively and is single-owner for generation: one
// call in flight per runner, callers serialize. Streaming calls deliver
// GenerationResult values over a channel the runner closes after exactly one
// terminal result (finish reason stop, length, or error).
package backend
