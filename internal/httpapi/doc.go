// Package httpapi exposes the studio over HTTP.
//
// The package serves two audiences from one mux: OpenAI-compatible
// inference endpoints (/v1/chat/completions, /v1/completions, /v1/models)
// that existing OpenAI clients can point at unchanged, and admin endpoints
// (/load, /unload, /health, /status, /hardware) for model lifecycle and
// introspection.
//
// Files:
//   - server.go: Service seam, router assembly, middleware stack
//   - handlers_openai.go: chat/completions/models handlers
//   - handlers_admin.go: load/unload/health/status/hardware handlers
//   - sse.go: Server-Sent Events framing for streaming responses
//   - errors.go: error -> status mapping and response envelopes
//   - config.go: body limits and CORS knobs
//   - context.go: base-context plumbing for graceful shutdown
//   - logging.go: optional zerolog wiring and per-request log levels
//   - metrics.go: Prometheus collectors and the event bridge
//   - swagger.go / swagger_stub.go: optional swagger UI mount
package httpapi
