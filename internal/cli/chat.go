package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"studiod/internal/backend"
	"studiod/internal/catalog"
	"studiod/internal/config"
)

const defaultSystemPrompt = "You are a helpful AI assistant."

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a model in the terminal",
		RunE:  runChat,
	}
	cmd.Flags().String("model", "", "Model to load (hub repo or local path; default picks for this machine)")
	cmd.Flags().String("system", "", "System prompt")
	cmd.Flags().Int("max-tokens", 0, "Max tokens per reply")
	cmd.Flags().Float32("temperature", 0, "Sampling temperature")
	cmd.Flags().Int("context-length", 0, "Context window")
	cmd.Flags().Int("gpu-layers", -1, "Layers moved to the accelerator (-1 all, 0 CPU)")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The REPL owns stdout; unless asked for more, only errors reach stderr.
	if !cmd.Flags().Changed("log-level") && envStr("STUDIOD_LOG_LEVEL", "") == "" {
		cfg.LogLevel = "error"
	}
	applyChatFlags(cmd, &cfg)
	setupLogging(cfg.LogLevel)

	out := cmd.OutOrStdout()
	info := detectHardware()
	printHardware(out, info)

	ref, _ := cmd.Flags().GetString("model")
	if ref == "" {
		ref = cfg.DefaultModel
	}
	if ref == "" {
		avail := info.AvailableRAMGB
		if info.GPU.VRAMGB > avail {
			avail = info.GPU.VRAMGB
		}
		best := catalog.BestForMemory(avail)
		fmt.Fprintf(out, "No model given; picking %s (%.1f GB) for this machine.\n", best.Name, best.SizeGB)
		ref = best.Repo
	}

	st := newStudio(cfg, nil)
	defer func() {
		if st.Loaded() {
			fmt.Fprintln(out, "Unloading model.")
		}
		_ = st.Close()
	}()

	ctx := cmd.Context()

	fmt.Fprintf(out, "Loading model: %s\n", ref)
	fmt.Fprintln(out, "(first run downloads the artifact from the hub)")
	opts := loadOptionsFrom(cfg)
	opts.Progress = func(status string, fraction float64) {
		fmt.Fprintf(out, "  [%3.0f%%] %s\n", fraction*100, status)
	}
	if _, err := st.Load(ctx, ref, opts); err != nil {
		return fmt.Errorf("load %s: %w", ref, err)
	}

	gen := backend.DefaultConfig()
	if v, _ := cmd.Flags().GetInt("max-tokens"); v > 0 {
		gen.MaxTokens = v
	}
	if v, _ := cmd.Flags().GetFloat32("temperature"); v > 0 {
		gen.Temperature = v
	}
	system, _ := cmd.Flags().GetString("system")
	if system == "" {
		system = defaultSystemPrompt
	}

	// Ctrl+C cancels the generation in flight instead of killing the REPL.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Chat started. Commands: quit, clear, stats.")
	sess := &chatSession{svc: st, out: out, system: system, gen: gen}
	return sess.run(ctx, cmd.InOrStdin(), sigCh)
}

func applyChatFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetInt("context-length"); v > 0 {
		cfg.ContextLength = v
	}
	if cmd.Flags().Changed("gpu-layers") {
		v, _ := cmd.Flags().GetInt("gpu-layers")
		cfg.GPULayers = &v
	}
}

// chatService is the slice of the studio the REPL needs.
type chatService interface {
	ChatStream(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error)
	Info() *backend.ModelInfo
}

// chatSession holds one REPL conversation: the rolling history plus the
// sampling parameters every turn reuses.
type chatSession struct {
	svc     chatService
	out     io.Writer
	system  string
	gen     backend.GenerationConfig
	history []backend.Message
}

// run reads lines until quit or EOF. Command words are handled locally;
// anything else becomes a chat turn.
func (cs *chatSession) run(ctx context.Context, in io.Reader, sigCh <-chan os.Signal) error {
	sc := bufio.NewScanner(in)
	for {
		// A Ctrl+C between turns should not linger and cancel the next one.
		select {
		case <-sigCh:
			fmt.Fprintln(cs.out, "Use 'quit' to exit.")
		default:
		}

		fmt.Fprint(cs.out, "You: ")
		if !sc.Scan() {
			fmt.Fprintln(cs.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "quit"):
			fmt.Fprintln(cs.out, "Goodbye.")
			return nil
		case strings.EqualFold(line, "clear"):
			cs.history = nil
			fmt.Fprintln(cs.out, "Conversation cleared.")
			continue
		case strings.EqualFold(line, "stats"):
			cs.printStats()
			continue
		}

		if err := cs.turn(ctx, line, sigCh); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(cs.out, "Error: %v\n", err)
		}
	}
}

// turn sends one user line and streams the reply. The exchange only joins
// the history when the model finished normally, so a cancelled or failed
// reply is not replayed as context.
func (cs *chatSession) turn(ctx context.Context, input string, sigCh <-chan os.Signal) error {
	msgs := make([]backend.Message, 0, len(cs.history)+2)
	msgs = append(msgs, backend.Message{Role: "system", Content: cs.system})
	msgs = append(msgs, cs.history...)
	msgs = append(msgs, backend.Message{Role: "user", Content: input})

	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				fmt.Fprintln(cs.out, "\n(interrupted)")
				cancel()
			case <-genCtx.Done():
			}
		}()
	}

	ch, err := cs.svc.ChatStream(genCtx, msgs, cs.gen)
	if err != nil {
		return err
	}

	fmt.Fprint(cs.out, "Assistant: ")
	var reply strings.Builder
	var last backend.GenerationResult
	for res := range ch {
		fmt.Fprint(cs.out, res.Text)
		reply.WriteString(res.Text)
		last = res
	}
	fmt.Fprintln(cs.out)

	if genCtx.Err() != nil || last.FinishReason == backend.FinishError {
		return nil
	}
	if last.TokensGenerated > 0 {
		fmt.Fprintf(cs.out, "   [%d tokens, %.1f tok/s]\n\n", last.TokensGenerated, last.TokensPerSecond)
	}
	cs.history = append(cs.history,
		backend.Message{Role: "user", Content: input},
		backend.Message{Role: "assistant", Content: reply.String()},
	)
	return nil
}

func (cs *chatSession) printStats() {
	info := cs.svc.Info()
	if info == nil {
		fmt.Fprintln(cs.out, "No model loaded.")
		return
	}
	fmt.Fprintf(cs.out, "Model: %s\n", info.Name)
	fmt.Fprintf(cs.out, "  Size: %.1f GB\n", info.SizeGB)
	fmt.Fprintf(cs.out, "  Context: %d\n", info.ContextLength)
	fmt.Fprintf(cs.out, "  Messages: %d\n", len(cs.history))
}
