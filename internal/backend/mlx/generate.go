package mlx

import (
	"context"
	"errors"
	"io"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"studiod/internal/backend"
)

// Generate streams completion fragments for prompt. The returned channel
// carries zero or more intermediate results and always ends with exactly
// one terminal result, after which it is closed. Consumers read until
// close.
func (r *Runner) Generate(ctx context.Context, prompt string, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	client, model, err := r.session()
	if err != nil {
		return nil, err
	}
	r.stop.Clear()
	out := make(chan backend.GenerationResult, streamBuffer)
	go func() {
		defer close(out)
		r.produceCompletion(ctx, client, model, prompt, cfg, out)
	}()
	return out, nil
}

// Chat completes a transcript. The engine's own chat template is applied
// by the child's chat endpoint; when that path fails the transcript is
// re-rendered with the plain role format and sent as a completion.
func (r *Runner) Chat(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error) {
	client, model, err := r.session()
	if err != nil {
		return nil, err
	}
	r.stop.Clear()
	out := make(chan backend.GenerationResult, streamBuffer)
	go func() {
		defer close(out)
		r.produceChat(ctx, client, model, messages, cfg, out)
	}()
	return out, nil
}

// CountTokens asks the engine's own tokenizer by way of a one-token
// completion; usage on the response carries the prompt token count.
func (r *Runner) CountTokens(ctx context.Context, text string) (int, error) {
	client, model, err := r.session()
	if err != nil {
		return 0, err
	}
	resp, err := client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     model,
		Prompt:    text,
		MaxTokens: 1,
	})
	if err != nil {
		return 0, backend.ErrRuntime("token count failed: " + err.Error())
	}
	return resp.Usage.PromptTokens, nil
}

func (r *Runner) produceCompletion(ctx context.Context, client *openai.Client, model, prompt string, cfg backend.GenerationConfig, out chan<- backend.GenerationResult) {
	start := time.Now()
	req := openai.CompletionRequest{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Stop:        cfg.Stop,
		Stream:      cfg.Stream,
	}

	if !cfg.Stream {
		resp, err := client.CreateCompletion(ctx, req)
		if err != nil {
			out <- r.failureResult(ctx, err, start, 0)
			return
		}
		var text, reason string
		if len(resp.Choices) > 0 {
			text = resp.Choices[0].Text
			reason = resp.Choices[0].FinishReason
		}
		out <- backend.GenerationResult{
			Text:            text,
			TokensGenerated: resp.Usage.CompletionTokens,
			PromptTokens:    resp.Usage.PromptTokens,
			FinishReason:    normalizeReason(reason),
		}
		return
	}

	stream, err := client.CreateCompletionStream(ctx, req)
	if err != nil {
		out <- r.failureResult(ctx, err, start, 0)
		return
	}
	defer stream.Close()

	tokens := 0
	reason := ""
	for {
		if r.stop.IsSet() || ctx.Err() != nil {
			out <- stopResult(start, tokens)
			return
		}
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			out <- r.failureResult(ctx, err, start, tokens)
			return
		}
		if len(resp.Choices) == 0 {
			continue
		}
		choice := resp.Choices[0]
		if fr := choice.FinishReason; fr != "" && fr != "null" {
			reason = fr
		}
		if choice.Text == "" {
			continue
		}
		tokens++
		if !r.forward(ctx, out, fragmentResult(choice.Text, start, tokens)) {
			out <- stopResult(start, tokens)
			return
		}
	}
	out <- backend.GenerationResult{
		TokensGenerated: tokens,
		TokensPerSecond: tokensPerSec(start, tokens),
		FinishReason:    normalizeReason(reason),
	}
}

func (r *Runner) produceChat(ctx context.Context, client *openai.Client, model string, messages []backend.Message, cfg backend.GenerationConfig, out chan<- backend.GenerationResult) {
	start := time.Now()
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    chatMessages(messages),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Stop:        cfg.Stop,
		Stream:      cfg.Stream,
	}

	if !cfg.Stream {
		resp, err := client.CreateChatCompletion(ctx, req)
		if err != nil {
			if ctx.Err() != nil || r.stop.IsSet() {
				out <- stopResult(start, 0)
				return
			}
			r.fallbackToCompletion(ctx, client, model, messages, cfg, out, err)
			return
		}
		var text, reason string
		if len(resp.Choices) > 0 {
			text = resp.Choices[0].Message.Content
			reason = string(resp.Choices[0].FinishReason)
		}
		out <- backend.GenerationResult{
			Text:            text,
			TokensGenerated: resp.Usage.CompletionTokens,
			PromptTokens:    resp.Usage.PromptTokens,
			FinishReason:    normalizeReason(reason),
		}
		return
	}

	stream, err := client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		if ctx.Err() != nil || r.stop.IsSet() {
			out <- stopResult(start, 0)
			return
		}
		r.fallbackToCompletion(ctx, client, model, messages, cfg, out, err)
		return
	}
	defer stream.Close()

	tokens := 0
	reason := ""
	for {
		if r.stop.IsSet() || ctx.Err() != nil {
			out <- stopResult(start, tokens)
			return
		}
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			out <- r.failureResult(ctx, err, start, tokens)
			return
		}
		if len(resp.Choices) == 0 {
			continue
		}
		choice := resp.Choices[0]
		if fr := string(choice.FinishReason); fr != "" && fr != "null" {
			reason = fr
		}
		if choice.Delta.Content == "" {
			continue
		}
		tokens++
		if !r.forward(ctx, out, fragmentResult(choice.Delta.Content, start, tokens)) {
			out <- stopResult(start, tokens)
			return
		}
	}
	out <- backend.GenerationResult{
		TokensGenerated: tokens,
		TokensPerSecond: tokensPerSec(start, tokens),
		FinishReason:    normalizeReason(reason),
	}
}

// fallbackToCompletion re-renders the transcript with the plain role
// format after the chat endpoint refused the request.
func (r *Runner) fallbackToCompletion(ctx context.Context, client *openai.Client, model string, messages []backend.Message, cfg backend.GenerationConfig, out chan<- backend.GenerationResult, cause error) {
	if zlog != nil {
		zlog.Warn().Err(cause).Msg("chat endpoint failed, falling back to role format")
	}
	r.produceCompletion(ctx, client, model, backend.FormatMessages(messages), cfg, out)
}

// forward delivers one fragment, honoring cancellation while the
// consumer is slow.
func (r *Runner) forward(ctx context.Context, out chan<- backend.GenerationResult, res backend.GenerationResult) bool {
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}

// failureResult maps a failed engine call to its terminal result. A call
// torn down by cancellation or the stop flag reads as a stop, not an
// error.
func (r *Runner) failureResult(ctx context.Context, err error, start time.Time, tokens int) backend.GenerationResult {
	if ctx.Err() != nil || r.stop.IsSet() {
		return stopResult(start, tokens)
	}
	return backend.GenerationResult{
		Text:            "Error: " + err.Error(),
		TokensGenerated: tokens,
		FinishReason:    backend.FinishError,
	}
}

func fragmentResult(text string, start time.Time, tokens int) backend.GenerationResult {
	return backend.GenerationResult{
		Text:            text,
		TokensGenerated: tokens,
		TokensPerSecond: tokensPerSec(start, tokens),
		FinishReason:    backend.FinishGenerating,
	}
}

func stopResult(start time.Time, tokens int) backend.GenerationResult {
	return backend.GenerationResult{
		TokensGenerated: tokens,
		TokensPerSecond: tokensPerSec(start, tokens),
		FinishReason:    backend.FinishStop,
	}
}

// normalizeReason maps the wire finish reason onto the runner vocabulary.
func normalizeReason(reason string) string {
	if reason == "length" {
		return backend.FinishLength
	}
	return backend.FinishStop
}

func chatMessages(messages []backend.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

func tokensPerSec(start time.Time, tokens int) float64 {
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return math.Round(float64(tokens)/elapsed*10) / 10
}
