package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"studiod/internal/backend"
	"studiod/internal/catalog"
	"studiod/pkg/types"
)

// requestID builds an OpenAI-style identifier like chatcmpl-1a2b3c4d.
func requestID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + hex[:8]
}

// samplingParams is the request surface shared by the chat and completion
// endpoints.
type samplingParams struct {
	maxTokens     int
	temperature   float32
	topP          float32
	topK          int
	repeatPenalty float32
	stop          []string
	stream        bool
}

// generationConfig merges request overrides onto the stock defaults. Zero
// values mean "not set" and keep the default.
func generationConfig(p samplingParams) backend.GenerationConfig {
	cfg := backend.DefaultConfig()
	cfg.Stream = p.stream
	if p.maxTokens > 0 {
		cfg.MaxTokens = p.maxTokens
	}
	if p.temperature > 0 {
		cfg.Temperature = p.temperature
	}
	if p.topP > 0 {
		cfg.TopP = p.topP
	}
	if p.topK > 0 {
		cfg.TopK = p.topK
	}
	if p.repeatPenalty > 0 {
		cfg.RepeatPenalty = p.repeatPenalty
	}
	if len(p.stop) > 0 {
		cfg.Stop = append([]string(nil), p.stop...)
	}
	return cfg
}

func usageFrom(res backend.GenerationResult) types.Usage {
	return types.Usage{
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.TokensGenerated,
		TotalTokens:      res.PromptTokens + res.TokensGenerated,
	}
}

// modelName returns the loaded model's name for response bodies.
func (s *server) modelName() string {
	if info := s.svc.Info(); info != nil {
		return info.Name
	}
	return ""
}

// respondOpenAIError writes the envelope for a service error, unless the
// request was canceled, in which case nobody is listening.
func (s *server) respondOpenAIError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
		return
	}
	status := statusForError(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("engine_busy")
	}
	writeAPIError(w, status, err.Error(), errorCode(err))
}

// handleChatCompletions serves POST /v1/chat/completions.
//
//	@Summary		Chat completion
//	@Description	OpenAI-compatible chat completion over the loaded model. Set stream for Server-Sent Events.
//	@Tags			openai
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.ChatCompletionRequest	true	"Chat completion request"
//	@Success		200		{object}	types.ChatCompletionResponse
//	@Failure		400		{object}	types.ErrorEnvelope
//	@Failure		429		{object}	types.ErrorEnvelope
//	@Failure		500		{object}	types.ErrorEnvelope
//	@Router			/v1/chat/completions [post]
func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	if !s.svc.Loaded() {
		writeModelNotLoaded(w)
		return
	}
	var req types.ChatCompletionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if len(req.Messages) == 0 {
		writeAPIError(w, http.StatusBadRequest, "messages are required", "")
		return
	}

	msgs := make([]backend.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = backend.Message{Role: m.Role, Content: m.Content}
	}
	cfg := generationConfig(samplingParams{
		maxTokens:     req.MaxTokens,
		temperature:   req.Temperature,
		topP:          req.TopP,
		topK:          req.TopK,
		repeatPenalty: req.RepeatPenalty,
		stop:          req.Stop,
		stream:        req.Stream,
	})

	id := requestID("chatcmpl-")
	created := time.Now().Unix()
	model := s.modelName()

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	if req.Stream {
		ch, err := s.svc.ChatStream(ctx, msgs, cfg)
		if err != nil {
			s.respondOpenAIError(w, r, err)
			return
		}
		s.streamChat(w, r, ch, id, created, model)
		return
	}

	res, err := s.svc.ChatCompletion(ctx, msgs, cfg)
	if err != nil {
		s.respondOpenAIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ChatCompletionResponse{
		ID:      id,
		Object:  "chat.completion",
		Created: created,
		Model:   model,
		Choices: []types.ChatChoice{{
			Index:        0,
			Message:      types.ChatMessage{Role: "assistant", Content: res.Text},
			FinishReason: res.FinishReason,
		}},
		Usage: usageFrom(res),
	})
}

// handleCompletions serves POST /v1/completions.
//
//	@Summary		Text completion
//	@Description	OpenAI-compatible text completion over the loaded model. Set stream for Server-Sent Events.
//	@Tags			openai
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.CompletionRequest	true	"Completion request"
//	@Success		200		{object}	types.CompletionResponse
//	@Failure		400		{object}	types.ErrorEnvelope
//	@Failure		429		{object}	types.ErrorEnvelope
//	@Failure		500		{object}	types.ErrorEnvelope
//	@Router			/v1/completions [post]
func (s *server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	if !s.svc.Loaded() {
		writeModelNotLoaded(w)
		return
	}
	var req types.CompletionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if req.Prompt == "" {
		writeAPIError(w, http.StatusBadRequest, "prompt is required", "")
		return
	}

	cfg := generationConfig(samplingParams{
		maxTokens:     req.MaxTokens,
		temperature:   req.Temperature,
		topP:          req.TopP,
		topK:          req.TopK,
		repeatPenalty: req.RepeatPenalty,
		stop:          req.Stop,
		stream:        req.Stream,
	})

	id := requestID("cmpl-")
	created := time.Now().Unix()
	model := s.modelName()

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	if req.Stream {
		ch, err := s.svc.GenerateStream(ctx, req.Prompt, cfg)
		if err != nil {
			s.respondOpenAIError(w, r, err)
			return
		}
		s.streamCompletion(w, r, ch, id, created, model)
		return
	}

	res, err := s.svc.Completion(ctx, req.Prompt, cfg)
	if err != nil {
		s.respondOpenAIError(w, r, err)
		return
	}
	usage := usageFrom(res)
	reason := res.FinishReason
	writeJSON(w, http.StatusOK, types.CompletionResponse{
		ID:      id,
		Object:  "text_completion",
		Created: created,
		Model:   model,
		Choices: []types.CompletionChoice{{
			Text:         res.Text,
			Index:        0,
			FinishReason: &reason,
		}},
		Usage: &usage,
	})
}

// handleModels serves GET /v1/models: the loaded model first, then the
// download catalogue.
//
//	@Summary		List models
//	@Description	Lists the loaded model plus the curated catalogue of downloadable models.
//	@Tags			openai
//	@Produce		json
//	@Success		200	{object}	types.ModelList
//	@Router			/v1/models [get]
func (s *server) handleModels(w http.ResponseWriter, r *http.Request) {
	now := time.Now().Unix()
	list := types.ModelList{Object: "list", Data: []types.ModelObject{}}
	if info := s.svc.Info(); info != nil {
		list.Data = append(list.Data, types.ModelObject{
			ID:      info.Name,
			Object:  "model",
			Created: now,
			OwnedBy: "local",
		})
	}
	for _, entry := range catalog.All() {
		list.Data = append(list.Data, types.ModelObject{
			ID:      entry.Repo,
			Object:  "model",
			Created: now,
			OwnedBy: "huggingface",
			Metadata: &types.ModelMetadata{
				Name:          entry.Name,
				Parameters:    entry.Parameters,
				SizeGB:        entry.SizeGB,
				ContextLength: entry.ContextLength,
			},
		})
	}
	writeJSON(w, http.StatusOK, list)
}
