//go:build llama_server

package llamacpp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"studiod/internal/backend"
)

var engineAvailable = func() bool { return discoverServerBin() != "" }

// defaultEngine spawns a llama-server child for the model and talks to its
// native completion endpoint.
var defaultEngine openEngine = func(ctx context.Context, path string, opts backend.LoadOptions) (engine, error) {
	bin := discoverServerBin()
	if bin == "" {
		return nil, backend.ErrUnavailable("llama-server not found: install llama.cpp or add it to PATH")
	}
	proc, err := startServerProcess(ctx, bin, path, opts)
	if err != nil {
		return nil, err
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}
	// Timeout stays 0: generation requests carry context deadlines instead.
	return &serverEngine{proc: proc, client: &http.Client{Transport: tr}}, nil
}

type serverEngine struct {
	proc   *serverProcess
	client *http.Client
}

type serverCompletionRequest struct {
	Prompt        string   `json:"prompt"`
	NPredict      int      `json:"n_predict"`
	Temperature   float32  `json:"temperature,omitempty"`
	TopP          float32  `json:"top_p,omitempty"`
	TopK          int      `json:"top_k,omitempty"`
	RepeatPenalty float32  `json:"repeat_penalty,omitempty"`
	Stop          []string `json:"stop,omitempty"`
	Stream        bool     `json:"stream"`
}

// serverChunk is the subset of llama-server's streamed completion events we
// consume.
type serverChunk struct {
	Content      string `json:"content"`
	Stop         bool   `json:"stop"`
	StoppedLimit bool   `json:"stopped_limit"`
}

func (e *serverEngine) Predict(ctx context.Context, prompt string, cfg backend.GenerationConfig, onToken func(string) bool) (string, error) {
	payload := serverCompletionRequest{
		Prompt:        prompt,
		NPredict:      cfg.MaxTokens,
		Temperature:   cfg.Temperature,
		TopP:          cfg.TopP,
		TopK:          cfg.TopK,
		RepeatPenalty: cfg.RepeatPenalty,
		Stop:          cfg.Stop,
		Stream:        true,
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.proc.baseURL()+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("llama-server http error: %s: %s", resp.Status, b)
	}

	r := bufio.NewReader(resp.Body)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSpace(line)
			if line != "" && strings.HasPrefix(strings.ToLower(line), "data:") {
				data := strings.TrimSpace(line[len("data:"):])
				if data == "[DONE]" {
					return "", nil
				}
				var chunk serverChunk
				if jsonErr := json.Unmarshal([]byte(data), &chunk); jsonErr == nil {
					if chunk.Content != "" && !onToken(chunk.Content) {
						return "", nil
					}
					if chunk.Stop {
						if chunk.StoppedLimit {
							return backend.FinishLength, nil
						}
						return backend.FinishStop, nil
					}
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", nil
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", err
		}
	}
}

func (e *serverEngine) VocabSize() int { return 0 }

func (e *serverEngine) Close() error {
	e.proc.stop()
	return nil
}
