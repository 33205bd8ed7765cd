package universal

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"studiod/internal/backend"
)

// Generate streams completion fragments for prompt. The returned channel
// carries zero or more intermediate results and always ends with exactly
// one terminal result, after which it is closed. Consumers read until
// close.
func (r *Runner) Generate(ctx context.Context, prompt string, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	w, err := r.worker()
	if err != nil {
		return nil, err
	}
	r.stop.Clear()
	req := workerRequest{
		Op:          opGenerate,
		Prompt:      prompt,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		TopK:        cfg.TopK,
		Stream:      cfg.Stream,
	}
	return r.start(ctx, w, req), nil
}

// Chat completes a transcript. The worker holds the tokenizer, so it
// applies the model's own chat template and falls back to the plain role
// format when the model ships none.
func (r *Runner) Chat(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	w, err := r.worker()
	if err != nil {
		return nil, err
	}
	r.stop.Clear()
	req := workerRequest{
		Op:          opChat,
		Messages:    messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		TopK:        cfg.TopK,
		Stream:      cfg.Stream,
	}
	return r.start(ctx, w, req), nil
}

// CountTokens runs the text through the worker's tokenizer.
func (r *Runner) CountTokens(_ context.Context, text string) (int, error) {
	w, err := r.worker()
	if err != nil {
		return 0, err
	}
	r.opMu.Lock()
	defer r.opMu.Unlock()
	if err := w.send(workerRequest{Op: opCount, Text: text}); err != nil {
		return 0, backend.ErrRuntime("token count failed: " + err.Error())
	}
	for {
		ev, err := w.readEvent()
		if err != nil {
			return 0, backend.ErrRuntime("token count failed: " + err.Error())
		}
		switch ev.Type {
		case evCount:
			return ev.Tokens, nil
		case evError:
			return 0, backend.ErrRuntime(ev.Message)
		}
	}
}

func (r *Runner) start(ctx context.Context, w worker, req workerRequest) <-chan backend.GenerationResult {
	out := make(chan backend.GenerationResult, streamBuffer)
	go func() {
		defer close(out)
		r.opMu.Lock()
		defer r.opMu.Unlock()
		r.produce(ctx, w, req, out)
	}()
	return out
}

// produce runs one generation round trip. A producer goroutine reads
// worker events into a channel; this consumer forwards fragments as they
// arrive, then drains the channel and joins the producer before emitting
// the terminal result, so trailing tokens are never lost.
func (r *Runner) produce(ctx context.Context, w worker, req workerRequest, out chan<- backend.GenerationResult) {
	start := time.Now()
	if err := w.send(req); err != nil {
		out <- backend.GenerationResult{
			Text:         "Error: " + err.Error(),
			FinishReason: backend.FinishError,
		}
		return
	}

	var g errgroup.Group
	events := make(chan workerEvent, streamBuffer)
	g.Go(func() error {
		defer close(events)
		for {
			ev, err := w.readEvent()
			if err != nil {
				return err
			}
			events <- ev
			if ev.Type == evDone || ev.Type == evError {
				return nil
			}
		}
	})

	tokens := 0
	halted := false
	stopSent := false
	var final workerEvent
	for ev := range events {
		switch ev.Type {
		case evToken:
			if halted {
				continue
			}
			if r.stop.IsSet() || ctx.Err() != nil {
				halted = true
				r.windDown(w, &stopSent)
				continue
			}
			tokens++
			res := backend.GenerationResult{
				Text:            ev.Text,
				TokensGenerated: tokens,
				TokensPerSecond: tokensPerSec(start, tokens),
				FinishReason:    backend.FinishGenerating,
			}
			select {
			case out <- res:
			case <-ctx.Done():
				halted = true
				r.windDown(w, &stopSent)
			}
		case evDone, evError:
			final = ev
		}
	}
	err := g.Wait()

	switch {
	case halted || ctx.Err() != nil:
		out <- backend.GenerationResult{
			TokensGenerated: tokens,
			TokensPerSecond: tokensPerSec(start, tokens),
			FinishReason:    backend.FinishStop,
		}
	case err != nil:
		out <- backend.GenerationResult{
			Text:            "Error: " + err.Error(),
			TokensGenerated: tokens,
			FinishReason:    backend.FinishError,
		}
	case final.Type == evError:
		out <- backend.GenerationResult{
			Text:            "Error: " + final.Message,
			TokensGenerated: tokens,
			FinishReason:    backend.FinishError,
		}
	default:
		res := backend.GenerationResult{
			TokensGenerated: tokens,
			TokensPerSecond: tokensPerSec(start, tokens),
			FinishReason:    normalizeReason(final.FinishReason),
		}
		if !req.Stream {
			res.Text = final.Text
			if final.Tokens > 0 {
				res.TokensGenerated = final.Tokens
			}
		}
		out <- res
	}
}

// windDown asks the worker once to end the current generation early.
func (r *Runner) windDown(w worker, sent *bool) {
	if *sent {
		return
	}
	*sent = true
	_ = w.send(workerRequest{Op: opStop})
}

// normalizeReason maps the worker finish reason onto the runner
// vocabulary.
func normalizeReason(reason string) string {
	if reason == backend.FinishLength {
		return backend.FinishLength
	}
	return backend.FinishStop
}

func tokensPerSec(start time.Time, tokens int) float64 {
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return math.Round(float64(tokens)/elapsed*10) / 10
}
