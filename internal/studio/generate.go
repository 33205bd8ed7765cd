package studio

import (
	"context"

	"studiod/internal/backend"
)

// GenerateStream runs a text completion on the active engine. The request
// waits for the in-flight slot; the returned stream follows the runner
// contract (zero or more fragments, one terminal result, then close) and
// must be drained until close. A canceled caller may see the channel close
// without a terminal result.
func (s *Studio) GenerateStream(ctx context.Context, prompt string, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	ch, err := s.active.Generate(ctx, prompt, cfg)
	if err != nil {
		release()
		return nil, err
	}
	return s.relay(ctx, ch, release), nil
}

// ChatStream runs a chat completion on the active engine, with the same
// stream contract as GenerateStream.
func (s *Studio) ChatStream(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	ch, err := s.active.Chat(ctx, messages, cfg)
	if err != nil {
		release()
		return nil, err
	}
	return s.relay(ctx, ch, release), nil
}

// Completion runs a non-streaming text completion and returns the
// aggregated result.
func (s *Studio) Completion(ctx context.Context, prompt string, cfg backend.GenerationConfig) (backend.GenerationResult, error) {
	cfg.Stream = false
	ch, err := s.GenerateStream(ctx, prompt, cfg)
	if err != nil {
		return backend.GenerationResult{}, err
	}
	return gather(ch), nil
}

// ChatCompletion runs a non-streaming chat completion and returns the
// aggregated result.
func (s *Studio) ChatCompletion(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (backend.GenerationResult, error) {
	cfg.Stream = false
	ch, err := s.ChatStream(ctx, messages, cfg)
	if err != nil {
		return backend.GenerationResult{}, err
	}
	return gather(ch), nil
}

// CountTokens tokenizes text with the loaded model. It bypasses the queue;
// engines serialize it internally where needed.
func (s *Studio) CountTokens(ctx context.Context, text string) (int, error) {
	return s.active.CountTokens(ctx, text)
}

// relay forwards the runner stream to the caller, holding the in-flight
// slot until the runner closes its channel. When the caller's context ends
// first, forwarding stops but the runner stream is still drained so the
// slot is not released under a running generation.
func (s *Studio) relay(ctx context.Context, ch <-chan backend.GenerationResult, release func()) <-chan backend.GenerationResult {
	s.publisher.Publish(Event{Name: "generate_start", Model: s.modelName()})
	out := make(chan backend.GenerationResult)
	go func() {
		defer close(out)
		defer release()
		var last backend.GenerationResult
		canceled := false
		for res := range ch {
			last = res
			if canceled {
				continue
			}
			if ctx.Err() != nil {
				canceled = true
				continue
			}
			select {
			case out <- res:
			case <-ctx.Done():
				canceled = true
			}
		}
		name := "generate_done"
		if canceled {
			name = "generate_cancel"
		}
		s.publisher.Publish(Event{Name: name, Model: s.modelName(), Fields: map[string]any{
			"tokens":        last.TokensGenerated,
			"finish_reason": last.FinishReason,
		}})
	}()
	return out
}

// gather collects a non-streaming call into one result: concatenated text,
// the terminal finish reason, and whichever usage counts arrived.
func gather(ch <-chan backend.GenerationResult) backend.GenerationResult {
	var (
		text string
		out  backend.GenerationResult
	)
	for res := range ch {
		text += res.Text
		if res.PromptTokens > 0 {
			out.PromptTokens = res.PromptTokens
		}
		if res.TokensGenerated > 0 {
			out.TokensGenerated = res.TokensGenerated
		}
		if res.TokensPerSecond > 0 {
			out.TokensPerSecond = res.TokensPerSecond
		}
		out.FinishReason = res.FinishReason
	}
	out.Text = text
	return out
}
