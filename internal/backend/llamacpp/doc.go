// Package llamacpp implements the native quantized-model runner on top of
// llama.cpp. The engine itself comes in three build flavors selected by
// build tags:
//
//   - llama: in-process inference through the go-llama.cpp CGO binding
//   - llama_server: a managed llama-server child process spoken to over HTTP
//   - neither: a stub that reports the dependency as unavailable
//
// Files:
// - runner.go: the backend.Runner implementation and streaming loop
// - resolve.go: model reference resolution (local path or hub fetch)
// - engine.go: the engine seam the flavors plug into
// - engine_llama.go / cgo_llama.go: CGO flavor
// - engine_server.go / server_process.go: child-process flavor
// - engine_stub.go: no-engine flavor
// - logging.go: optional structured logger hookup
package llamacpp
