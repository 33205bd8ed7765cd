// Package studio coordinates the inference engines behind one front door.
// It owns a runner per engine and the policy between them: one active
// engine, one model loaded at a time, and one generation in flight behind a
// bounded FIFO queue. Lifecycle transitions are published as events.
//
// Files by concern:
//
//   - studio.go: Studio type, constructor, engine selection, status.
//   - config.go: Config and package defaults.
//   - admission.go: queue and in-flight slot reservation.
//   - load.go: load/unload orchestration and the advisory fit check.
//   - generate.go: generation entry points wrapping the active runner.
//   - events.go: lifecycle event contract and the no-op publisher.
//   - eventpub_memory.go: in-memory publisher for tests.
//   - errors.go: busy error and predicate.
//   - logging.go: optional zerolog injection.
package studio
