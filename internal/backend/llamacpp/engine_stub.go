//go:build !llama && !llama_server

package llamacpp

// No-CGO stub, compiled when neither engine flavor is selected. Default
// builds and CI stay CGO-free; loads fail fast instead of pretending.

import (
	"context"

	"studiod/internal/backend"
)

var engineAvailable = func() bool { return false }

var defaultEngine openEngine = func(_ context.Context, _ string, _ backend.LoadOptions) (engine, error) {
	return nil, backend.ErrUnavailable("llama.cpp engine not built (build with -tags llama or llama_server)")
}
