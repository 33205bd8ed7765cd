package universal

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"studiod/internal/backend"
	"studiod/internal/hardware"
)

// fakeWorker scripts stdout events and records the requests it was sent.
type fakeWorker struct {
	mu       sync.Mutex
	requests []workerRequest
	events   []workerEvent
	idx      int
	stopped  int

	// infinite emits token events once the script runs out, until a stop
	// op arrives.
	infinite      bool
	stopRequested atomic.Bool

	// block parks readEvent once the script runs out until closed.
	block chan struct{}

	readErr error
}

func (f *fakeWorker) send(req workerRequest) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if req.Op == opStop {
		f.stopRequested.Store(true)
	}
	return nil
}

func (f *fakeWorker) readEvent() (workerEvent, error) {
	f.mu.Lock()
	if f.idx < len(f.events) {
		ev := f.events[f.idx]
		f.idx++
		f.mu.Unlock()
		return ev, nil
	}
	f.mu.Unlock()
	if f.infinite {
		if f.stopRequested.Load() {
			return workerEvent{Type: evDone, FinishReason: "stop"}, nil
		}
		return workerEvent{Type: evToken, Text: "x"}, nil
	}
	if f.block != nil {
		<-f.block
		return workerEvent{}, io.EOF
	}
	if f.readErr != nil {
		return workerEvent{}, f.readErr
	}
	return workerEvent{}, io.EOF
}

func (f *fakeWorker) stop() {
	f.mu.Lock()
	f.stopped++
	f.mu.Unlock()
}

func (f *fakeWorker) stoppedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func (f *fakeWorker) request(op string) (workerRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req.Op == op {
			return req, true
		}
	}
	return workerRequest{}, false
}

// hardware pictures the device tests resolve against.
func cudaHost() hardware.Info {
	return hardware.Info{
		Platform: hardware.PlatformLinux,
		GPU:      hardware.GPU{Vendor: hardware.VendorNVIDIA, CUDAAvailable: true, VRAMGB: 24},
	}
}

func appleHost() hardware.Info {
	return hardware.Info{
		Platform: hardware.PlatformMacOS,
		GPU:      hardware.GPU{Vendor: hardware.VendorApple, MetalAvailable: true, VRAMGB: 12},
	}
}

func cpuHost() hardware.Info {
	return hardware.Info{
		Platform: hardware.PlatformLinux,
		GPU:      hardware.GPU{Vendor: hardware.VendorNone},
	}
}

// newTestRunner wires a runner to f on the given host.
func newTestRunner(f *fakeWorker, hw hardware.Info) *Runner {
	r := New(Config{Command: []string{"fake-worker"}})
	r.available = func() bool { return true }
	r.probe = func() hardware.Info { return hw }
	r.spawn = func(context.Context, []string) (worker, error) { return f, nil }
	return r
}

// loadedEvent is the canonical success ack used across tests.
func loadedEvent() workerEvent {
	return workerEvent{Type: evLoaded, Device: deviceCPU, ContextLength: 4096, VocabSize: 32000}
}

func loadTestModel(t *testing.T, r *Runner, ref string) *backend.ModelInfo {
	t.Helper()
	info, err := r.LoadModel(context.Background(), ref, backend.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	return info
}

// collect drains a generation stream to completion.
func collect(t *testing.T, ch <-chan backend.GenerationResult) []backend.GenerationResult {
	t.Helper()
	var out []backend.GenerationResult
	for res := range ch {
		out = append(out, res)
	}
	if len(out) == 0 {
		t.Fatalf("stream yielded no results")
	}
	return out
}

// checkTerminal asserts exactly one terminal result, in last place, and
// returns it.
func checkTerminal(t *testing.T, results []backend.GenerationResult) backend.GenerationResult {
	t.Helper()
	for i, res := range results[:len(results)-1] {
		if res.Terminal() {
			t.Fatalf("result %d of %d is terminal: %+v", i, len(results), res)
		}
	}
	last := results[len(results)-1]
	if !last.Terminal() {
		t.Fatalf("last result not terminal: %+v", last)
	}
	return last
}
