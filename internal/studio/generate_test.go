package studio

import (
	"context"
	"reflect"
	"testing"
	"time"

	"studiod/internal/backend"
)

func TestGenerateStreamForwardsResults(t *testing.T) {
	f := newFake("llamacpp")
	f.fragments = []string{"Hel", "lo"}
	s, pub := newStudio(t, Config{}, f)
	loadModel(t, s, "tiny")

	ch, err := s.GenerateStream(context.Background(), "hi", backend.DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}
	results := collect(t, ch)
	last := checkTerminal(t, results)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Text != "Hel" || results[1].Text != "lo" {
		t.Fatalf("fragments = %q %q", results[0].Text, results[1].Text)
	}
	if last.FinishReason != backend.FinishStop || last.TokensGenerated != 2 {
		t.Fatalf("terminal = %+v", last)
	}
	if f.prompt != "hi" {
		t.Fatalf("runner prompt = %q, want hi", f.prompt)
	}

	names := pub.Names()
	start, done := -1, -1
	for i, n := range names {
		switch n {
		case "generate_start":
			start = i
		case "generate_done":
			done = i
		}
	}
	if start == -1 || done == -1 || done < start {
		t.Fatalf("generation events out of order: %v", names)
	}
	if got := pub.Events()[done].Fields["finish_reason"]; got != backend.FinishStop {
		t.Fatalf("done finish_reason = %v, want stop", got)
	}
}

func TestGenerateStreamWithoutModel(t *testing.T) {
	f := newFake("llamacpp")
	s, _ := newStudio(t, Config{}, f)
	_, err := s.GenerateStream(context.Background(), "hi", backend.DefaultConfig())
	if !backend.IsRuntime(err) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	// The failed call released its slots.
	if st := s.Status(); st.Queued != 0 || st.InFlight != 0 {
		t.Fatalf("slots leaked: %+v", st)
	}
}

func TestChatStreamForwardsMessages(t *testing.T) {
	f := newFake("llamacpp")
	f.fragments = []string{"ok"}
	s, _ := newStudio(t, Config{}, f)
	loadModel(t, s, "tiny")

	msgs := []backend.Message{
		{Role: "system", Content: "Be terse."},
		{Role: "user", Content: "hi"},
	}
	ch, err := s.ChatStream(context.Background(), msgs, backend.DefaultConfig())
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	checkTerminal(t, collect(t, ch))
	if !reflect.DeepEqual(f.msgs, msgs) {
		t.Fatalf("runner messages = %+v", f.msgs)
	}
}

func TestCompletionAggregates(t *testing.T) {
	f := newFake("llamacpp")
	f.fragments = []string{"Hel", "lo"}
	f.reason = backend.FinishLength
	s, _ := newStudio(t, Config{}, f)
	loadModel(t, s, "tiny")

	res, err := s.Completion(context.Background(), "hi", backend.DefaultConfig())
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if res.Text != "Hello" {
		t.Fatalf("Text = %q, want Hello", res.Text)
	}
	if res.FinishReason != backend.FinishLength {
		t.Fatalf("FinishReason = %q, want length", res.FinishReason)
	}
	if res.TokensGenerated != 2 || res.PromptTokens != 3 {
		t.Fatalf("usage = %d/%d, want 2/3", res.TokensGenerated, res.PromptTokens)
	}
	if f.cfg.Stream {
		t.Fatalf("runner saw a streaming config on Completion")
	}
}

func TestChatCompletionAggregates(t *testing.T) {
	f := newFake("llamacpp")
	f.fragments = []string{"sure"}
	s, _ := newStudio(t, Config{}, f)
	loadModel(t, s, "tiny")

	res, err := s.ChatCompletion(context.Background(), []backend.Message{{Role: "user", Content: "hi"}}, backend.DefaultConfig())
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if res.Text != "sure" || res.FinishReason != backend.FinishStop {
		t.Fatalf("result = %+v", res)
	}
}

func TestSecondRequestBusyWhileGenerating(t *testing.T) {
	f := newFake("llamacpp")
	f.gate = make(chan struct{})
	s, _ := newStudio(t, Config{QueueDepth: 1, MaxQueueWait: 20 * time.Millisecond}, f)
	loadModel(t, s, "tiny")

	ch, err := s.GenerateStream(context.Background(), "first", backend.DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}
	if _, err := s.GenerateStream(context.Background(), "second", backend.DefaultConfig()); !IsBusy(err) {
		t.Fatalf("expected busy error, got %v", err)
	}

	close(f.gate)
	checkTerminal(t, collect(t, ch))

	// The slot is free again.
	res, err := s.Completion(context.Background(), "third", backend.DefaultConfig())
	if err != nil {
		t.Fatalf("Completion after release: %v", err)
	}
	if !res.Terminal() {
		t.Fatalf("aggregate result not terminal: %+v", res)
	}
}

func TestQueuedRequestRunsAfterRelease(t *testing.T) {
	f := newFake("llamacpp")
	f.gate = make(chan struct{})
	s, _ := newStudio(t, Config{QueueDepth: 2, MaxQueueWait: 5 * time.Second}, f)
	loadModel(t, s, "tiny")

	first, err := s.GenerateStream(context.Background(), "first", backend.DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	type answer struct {
		res backend.GenerationResult
		err error
	}
	second := make(chan answer, 1)
	go func() {
		res, err := s.Completion(context.Background(), "second", backend.DefaultConfig())
		second <- answer{res: res, err: err}
	}()

	// The queued request must not start while the first one runs.
	select {
	case a := <-second:
		t.Fatalf("queued request finished early: %+v %v", a.res, a.err)
	case <-time.After(50 * time.Millisecond):
	}

	close(f.gate)
	checkTerminal(t, collect(t, first))

	a := <-second
	if a.err != nil {
		t.Fatalf("queued request: %v", a.err)
	}
	if !a.res.Terminal() {
		t.Fatalf("queued result not terminal: %+v", a.res)
	}
}

func TestCanceledCallerPublishesCancel(t *testing.T) {
	f := newFake("llamacpp")
	f.fragments = []string{"a", "b"}
	f.gate = make(chan struct{})
	s, pub := newStudio(t, Config{}, f)
	loadModel(t, s, "tiny")

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.GenerateStream(ctx, "hi", backend.DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	// Read the fragments, then walk away.
	for i := 0; i < 2; i++ {
		if res := <-ch; res.Terminal() {
			t.Fatalf("terminal before cancel: %+v", res)
		}
	}
	cancel()
	collect(t, ch)

	names := pub.Names()
	if names[len(names)-1] != "generate_cancel" {
		t.Fatalf("last event = %q, want generate_cancel", names[len(names)-1])
	}
}

func TestCanceledContextRejectedBeforeAdmission(t *testing.T) {
	f := newFake("llamacpp")
	s, _ := newStudio(t, Config{}, f)
	loadModel(t, s, "tiny")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.GenerateStream(ctx, "hi", backend.DefaultConfig()); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
