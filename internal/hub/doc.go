// Package hub resolves model references against a Hugging Face style file
// hub and materializes artifacts on local disk.
//
// Files:
// - ref.go: repository reference parsing ("owner/name")
// - client.go: Client construction and shared HTTP plumbing
// - list.go: repository file listing via the hub JSON API
// - select.go: GGUF artifact selection and quantization preference order
// - cache.go: cached-artifact detection under the models directory
// - fetch.go: resolve + download orchestration with retry
// - progress.go: byte-level download progress tracking
// - retry.go: transient-failure classification and backoff policy
// - logging.go: optional structured logger hookup
package hub
