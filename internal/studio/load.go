package studio

import (
	"context"
	"time"

	"studiod/internal/backend"
	"studiod/internal/catalog"
	"studiod/internal/hardware"
)

// Load replaces the loaded model with ref on the active engine. It waits in
// the same admission queue as generation, so a load never races an
// in-flight request. Any currently loaded model is unloaded first; a failed
// load leaves the engine unloaded.
func (s *Studio) Load(ctx context.Context, ref string, opts backend.LoadOptions) (*backend.ModelInfo, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.warnIfTooBig(ref)
	s.publisher.Publish(Event{Name: "load_start", Model: ref})

	if s.active.Loaded() {
		if err := s.unloadActive(); err != nil {
			s.publisher.Publish(Event{Name: "load_error", Model: ref, Fields: map[string]any{"error": err.Error()}})
			return nil, err
		}
	}

	progress := opts.Progress
	opts.Progress = func(status string, fraction float64) {
		s.publisher.Publish(Event{Name: "load_progress", Model: ref, Fields: map[string]any{
			"status":   status,
			"fraction": fraction,
		}})
		if progress != nil {
			progress(status, fraction)
		}
	}

	info, err := s.active.LoadModel(ctx, ref, opts)
	if err != nil {
		s.publisher.Publish(Event{Name: "load_error", Model: ref, Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}
	s.publisher.Publish(Event{Name: "load_ready", Model: info.Name, Fields: map[string]any{
		"size_gb":        info.SizeGB,
		"context_length": info.ContextLength,
	}})
	if zlog != nil {
		zlog.Info().
			Str("engine", s.active.Name()).
			Str("model", info.Name).
			Float64("size_gb", info.SizeGB).
			Msg("model loaded")
	}
	return info, nil
}

// Unload drains in-flight work and releases the loaded model. Calling it
// with no model loaded, or while another unload is draining, is a no-op.
func (s *Studio) Unload() error {
	if !s.active.Loaded() {
		return nil
	}
	if !s.beginDrain() {
		return nil
	}
	defer s.endDrain()

	deadline := time.Now().Add(s.drainTimeout)
	for {
		if len(s.genCh) == 0 && len(s.queueCh) == 0 {
			break
		}
		if time.Now().After(deadline) {
			s.publisher.Publish(Event{Name: "unload_timeout", Model: s.modelName(), Fields: map[string]any{
				"inflight": len(s.genCh),
				"queued":   len(s.queueCh),
			}})
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	return s.unloadActive()
}

// unloadActive releases the model on the active runner with events around
// it. Callers hold the in-flight slot or have drained it.
func (s *Studio) unloadActive() error {
	name := s.modelName()
	s.publisher.Publish(Event{Name: "unload_start", Model: name})
	if err := s.active.UnloadModel(); err != nil {
		return err
	}
	s.publisher.Publish(Event{Name: "unload_done", Model: name})
	if zlog != nil && name != "" {
		zlog.Info().Str("engine", s.active.Name()).Str("model", name).Msg("model unloaded")
	}
	return nil
}

func (s *Studio) beginDrain() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draining {
		return false
	}
	s.draining = true
	return true
}

func (s *Studio) endDrain() {
	s.mu.Lock()
	s.draining = false
	s.mu.Unlock()
}

// warnIfTooBig checks a catalogue ref against detected memory, preferring
// dedicated GPU memory like the size recommendation does. Advisory only;
// the load proceeds either way.
func (s *Studio) warnIfTooBig(ref string) {
	entry, ok := catalog.ByRepo(ref)
	if !ok {
		return
	}
	info := s.hw()
	avail := info.AvailableRAMGB
	if info.GPU.Vendor != hardware.VendorNone && info.GPU.Vendor != "" && info.GPU.VRAMGB > 0 {
		avail = info.GPU.VRAMGB
	}
	if entry.FitsMemory(avail) {
		return
	}
	if zlog != nil {
		zlog.Warn().
			Str("model", ref).
			Float64("size_gb", entry.SizeGB).
			Float64("available_gb", avail).
			Msg("model may not fit in memory")
	}
}
