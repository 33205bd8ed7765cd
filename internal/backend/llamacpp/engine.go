package llamacpp

import (
	"context"
	"strings"

	"studiod/internal/backend"
)

// engine abstracts one loaded llama.cpp model. Each build flavor provides a
// defaultEngine constructor and an engineAvailable probe; tests substitute
// their own.
type engine interface {
	// Predict streams text fragments to onToken until generation finishes
	// or onToken returns false. It returns the engine-reported finish
	// reason, or "" when the engine does not say.
	Predict(ctx context.Context, prompt string, cfg backend.GenerationConfig, onToken func(string) bool) (string, error)
	// VocabSize reports the model's vocabulary size, 0 when unknown.
	VocabSize() int
	Close() error
}

// openEngine loads the model at path and returns a live engine. ctx bounds
// the load only; the engine outlives it.
type openEngine func(ctx context.Context, path string, opts backend.LoadOptions) (engine, error)

// classifyLoadError sorts an engine load failure into the error classes
// callers dispatch on. CUDA failures read as memory exhaustion: the driver
// reports allocation failures in many shapes and "cuda" in the message is
// the common denominator.
func classifyLoadError(err error) error {
	if err == nil {
		return nil
	}
	if backend.IsUnavailable(err) || backend.IsOutOfMemory(err) || backend.IsCancelled(err) || backend.IsNotFound(err) || backend.IsRuntime(err) {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "out of memory") || strings.Contains(msg, "cuda") {
		return backend.ErrOutOfMemory("not enough memory to load model: " + err.Error())
	}
	return backend.ErrRuntime("failed to load model: " + err.Error())
}
