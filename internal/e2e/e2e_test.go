// Package e2e exercises the assembled daemon in process: the real studio
// queue and lifecycle behind the real HTTP mux, with only the inference
// engine replaced by a script. Endpoint-level behavior of individual
// handlers is covered in internal/httpapi; these tests check that the
// layers agree with each other.
package e2e

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"studiod/internal/backend"
	"studiod/internal/studio"
	"studiod/pkg/types"
)

func TestE2E_LoadGenerateUnload(t *testing.T) {
	runner := newScriptedRunner("Hello ", "world")
	srv := newServer(t, studio.Config{}, runner)

	var health types.HealthResponse
	decodeJSON(t, getURL(t, srv.URL+"/health"), http.StatusOK, &health)
	if health.Status != "healthy" || health.ModelLoaded {
		t.Fatalf("fresh health = %+v", health)
	}
	if health.Backend != "llamacpp" {
		t.Fatalf("backend = %q, want llamacpp", health.Backend)
	}

	var loaded types.LoadResponse
	decodeJSON(t, postJSON(t, srv.URL+"/load", `{"model":"org/tiny","context_length":2048}`), http.StatusOK, &loaded)
	if !loaded.Success || loaded.Model != "org/tiny" {
		t.Fatalf("load = %+v", loaded)
	}
	if loaded.ContextLength != 2048 {
		t.Fatalf("context_length = %d, want 2048", loaded.ContextLength)
	}

	decodeJSON(t, getURL(t, srv.URL+"/health"), http.StatusOK, &health)
	if !health.ModelLoaded || health.Model != "org/tiny" {
		t.Fatalf("health after load = %+v", health)
	}

	var status types.StatusResponse
	decodeJSON(t, getURL(t, srv.URL+"/status"), http.StatusOK, &status)
	if !status.ModelLoaded || status.Generating || status.QueueLen != 0 {
		t.Fatalf("status = %+v", status)
	}

	var list types.ModelList
	decodeJSON(t, getURL(t, srv.URL+"/v1/models"), http.StatusOK, &list)
	if len(list.Data) == 0 || list.Data[0].ID != "org/tiny" || list.Data[0].OwnedBy != "local" {
		t.Fatalf("models list head = %+v", list.Data)
	}

	var unloaded types.UnloadResponse
	decodeJSON(t, postJSON(t, srv.URL+"/unload", `{}`), http.StatusOK, &unloaded)
	if !unloaded.Success {
		t.Fatalf("unload = %+v", unloaded)
	}
	decodeJSON(t, getURL(t, srv.URL+"/health"), http.StatusOK, &health)
	if health.ModelLoaded {
		t.Fatalf("model still loaded after unload")
	}

	// Unload with nothing loaded still succeeds.
	decodeJSON(t, postJSON(t, srv.URL+"/unload", `{}`), http.StatusOK, &unloaded)
	if !unloaded.Success {
		t.Fatalf("second unload = %+v", unloaded)
	}
}

func TestE2E_ChatCompletion(t *testing.T) {
	runner := newScriptedRunner("Hello ", "world")
	srv := loadedServer(t, runner)

	var resp types.ChatCompletionResponse
	decodeJSON(t, postJSON(t, srv.URL+"/v1/chat/completions",
		`{"messages":[{"role":"user","content":"hi"}]}`), http.StatusOK, &resp)

	if resp.Object != "chat.completion" || !strings.HasPrefix(resp.ID, "chatcmpl-") {
		t.Fatalf("envelope = %+v", resp)
	}
	if resp.Model != "org/tiny" {
		t.Fatalf("model = %q", resp.Model)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("choices = %d", len(resp.Choices))
	}
	choice := resp.Choices[0]
	if choice.Message.Role != "assistant" || choice.Message.Content != "Hello world" {
		t.Fatalf("message = %+v", choice.Message)
	}
	if choice.FinishReason != backend.FinishStop {
		t.Fatalf("finish_reason = %q", choice.FinishReason)
	}
	if resp.Usage.CompletionTokens != 2 || resp.Usage.PromptTokens != 3 || resp.Usage.TotalTokens != 5 {
		t.Fatalf("usage = %+v", resp.Usage)
	}

	msgs := runner.chatMessages()
	if len(msgs) != 1 || msgs[0].Role != "user" || msgs[0].Content != "hi" {
		t.Fatalf("runner saw %+v", msgs)
	}
}

func TestE2E_Completion(t *testing.T) {
	runner := newScriptedRunner("Once ", "upon ", "a time")
	srv := loadedServer(t, runner)

	var resp types.CompletionResponse
	decodeJSON(t, postJSON(t, srv.URL+"/v1/completions", `{"prompt":"Tell me a story"}`), http.StatusOK, &resp)

	if resp.Object != "text_completion" || !strings.HasPrefix(resp.ID, "cmpl-") {
		t.Fatalf("envelope = %+v", resp)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Text != "Once upon a time" {
		t.Fatalf("choices = %+v", resp.Choices)
	}
	if resp.Choices[0].FinishReason == nil || *resp.Choices[0].FinishReason != backend.FinishStop {
		t.Fatalf("finish_reason = %v", resp.Choices[0].FinishReason)
	}
}

func TestE2E_InferenceRequiresModel(t *testing.T) {
	srv := newServer(t, studio.Config{}, newScriptedRunner("x"))

	for _, tc := range []struct {
		path string
		body string
	}{
		{"/v1/chat/completions", `{"messages":[{"role":"user","content":"hi"}]}`},
		{"/v1/completions", `{"prompt":"hi"}`},
	} {
		var envelope types.ErrorEnvelope
		decodeJSON(t, postJSON(t, srv.URL+tc.path, tc.body), http.StatusBadRequest, &envelope)
		if envelope.Error.Code != "model_not_loaded" {
			t.Fatalf("%s: code = %q, want model_not_loaded", tc.path, envelope.Error.Code)
		}
		if envelope.Error.Type != "invalid_request_error" {
			t.Fatalf("%s: type = %q", tc.path, envelope.Error.Type)
		}
	}
}

func TestE2E_StreamingChat(t *testing.T) {
	runner := newScriptedRunner("Hel", "lo")
	srv := loadedServer(t, runner)

	resp := postJSON(t, srv.URL+"/v1/chat/completions",
		`{"messages":[{"role":"user","content":"hi"}],"stream":true}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	events := sseData(t, resp.Body)
	if len(events) != 4 {
		t.Fatalf("got %d events: %v", len(events), events)
	}
	if events[len(events)-1] != "[DONE]" {
		t.Fatalf("missing [DONE] sentinel, last = %q", events[len(events)-1])
	}

	var text strings.Builder
	var finish string
	for _, ev := range events[:len(events)-1] {
		var chunk types.ChatCompletionChunk
		if err := json.Unmarshal([]byte(ev), &chunk); err != nil {
			t.Fatalf("chunk %q: %v", ev, err)
		}
		if chunk.Object != "chat.completion.chunk" || len(chunk.Choices) != 1 {
			t.Fatalf("chunk = %+v", chunk)
		}
		text.WriteString(chunk.Choices[0].Delta.Content)
		if fr := chunk.Choices[0].FinishReason; fr != nil {
			finish = *fr
		}
	}
	if text.String() != "Hello" {
		t.Fatalf("streamed text = %q", text.String())
	}
	if finish != backend.FinishStop {
		t.Fatalf("finish = %q", finish)
	}
}

func TestE2E_Backpressure429(t *testing.T) {
	runner := newScriptedRunner("tok")
	runner.gate = make(chan struct{})
	srv := newServer(t, studio.Config{QueueDepth: 1, MaxQueueWait: 20 * time.Millisecond}, runner)

	var loaded types.LoadResponse
	decodeJSON(t, postJSON(t, srv.URL+"/load", `{"model":"org/tiny"}`), http.StatusOK, &loaded)

	// First request streams and then parks on the gate, holding both the
	// queue slot and the generation slot.
	first := postJSON(t, srv.URL+"/v1/chat/completions",
		`{"messages":[{"role":"user","content":"hi"}],"stream":true}`)
	defer first.Body.Close()
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first status = %d", first.StatusCode)
	}
	reader := bufio.NewReader(first.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("waiting for first chunk: %v", err)
		}
		if strings.HasPrefix(line, "data: ") {
			break
		}
	}

	var status types.StatusResponse
	decodeJSON(t, getURL(t, srv.URL+"/status"), http.StatusOK, &status)
	if !status.Generating {
		t.Fatalf("status during stream = %+v", status)
	}

	// Queue depth one means the parked request saturates admission; the
	// next request times out and maps to 429.
	var envelope types.ErrorEnvelope
	decodeJSON(t, postJSON(t, srv.URL+"/v1/chat/completions",
		`{"messages":[{"role":"user","content":"again"}]}`), http.StatusTooManyRequests, &envelope)
	if envelope.Error.Code != "engine_busy" {
		t.Fatalf("code = %q, want engine_busy", envelope.Error.Code)
	}
	if envelope.Error.Type != "rate_limit_error" {
		t.Fatalf("type = %q", envelope.Error.Type)
	}

	// Release the first stream and confirm it still completes cleanly.
	close(runner.gate)
	rest, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("drain first stream: %v", err)
	}
	if !strings.Contains(string(rest), "data: [DONE]") {
		t.Fatalf("first stream did not finish: %q", rest)
	}
}

func TestE2E_LoadErrorMapping(t *testing.T) {
	for _, tc := range []struct {
		name   string
		err    error
		status int
	}{
		{"not found", backend.ErrNotFound("org/missing"), http.StatusNotFound},
		{"out of memory", backend.ErrOutOfMemory("model needs 40 GB"), http.StatusInsufficientStorage},
		{"unavailable", backend.ErrUnavailable("llama.cpp runtime missing"), http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			runner := newScriptedRunner("tok")
			runner.loadErr = tc.err
			srv := newServer(t, studio.Config{}, runner)

			var errResp types.ErrorResponse
			decodeJSON(t, postJSON(t, srv.URL+"/load", `{"model":"org/any"}`), tc.status, &errResp)
			if errResp.Code != tc.status {
				t.Fatalf("body code = %d, want %d", errResp.Code, tc.status)
			}
			if errResp.Error != tc.err.Error() {
				t.Fatalf("error = %q, want %q", errResp.Error, tc.err.Error())
			}
		})
	}
}

func TestE2E_LoadReplacesModel(t *testing.T) {
	runner := newScriptedRunner("tok")
	srv := newServer(t, studio.Config{}, runner)

	var loaded types.LoadResponse
	decodeJSON(t, postJSON(t, srv.URL+"/load", `{"model":"org/first"}`), http.StatusOK, &loaded)
	decodeJSON(t, postJSON(t, srv.URL+"/load", `{"model":"org/second"}`), http.StatusOK, &loaded)
	if loaded.Model != "org/second" {
		t.Fatalf("model = %q", loaded.Model)
	}

	var health types.HealthResponse
	decodeJSON(t, getURL(t, srv.URL+"/health"), http.StatusOK, &health)
	if health.Model != "org/second" {
		t.Fatalf("health model = %q", health.Model)
	}

	loads, unloads := runner.counts()
	if loads != 2 || unloads != 1 {
		t.Fatalf("loads = %d, unloads = %d; want 2, 1", loads, unloads)
	}
}

func TestE2E_HardwareAndMetrics(t *testing.T) {
	runner := newScriptedRunner("tok")
	srv := loadedServer(t, runner)

	// Hardware detection runs against the host here, so only shape is
	// asserted.
	var hw types.HardwareResponse
	decodeJSON(t, getURL(t, srv.URL+"/hardware"), http.StatusOK, &hw)
	if hw.Compatibility == "" {
		t.Fatalf("hardware = %+v", hw)
	}

	var resp types.CompletionResponse
	decodeJSON(t, postJSON(t, srv.URL+"/v1/completions", `{"prompt":"hi"}`), http.StatusOK, &resp)

	metrics := getURL(t, srv.URL+"/metrics")
	defer metrics.Body.Close()
	if metrics.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", metrics.StatusCode)
	}
	body, err := io.ReadAll(metrics.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, metric := range []string{
		"studiod_http_requests_total",
		"studiod_model_loads_total",
		"studiod_generation_completed_total",
	} {
		if !strings.Contains(string(body), metric) {
			t.Fatalf("metrics missing %s", metric)
		}
	}
}
