// Package universal implements the fallback runner over a transformers
// worker child process. The worker speaks newline-delimited JSON on
// stdin/stdout: the runner writes one request object per line and reads
// event objects (loaded, token, done, error, count) back. Anything with
// a Python interpreter and the transformers stack can serve it, which
// makes this the runner of last resort on hosts the native engines do
// not cover.
//
// Files:
// - runner.go: the backend.Runner implementation and model lifecycle
// - generate.go: streaming with a producer/consumer handoff
// - protocol.go: request/event wire shapes and the worker seam
// - worker.go: child process management
// - device.go: device resolution and quantization policy
// - logging.go: optional structured logger hookup
package universal
