package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studiod/internal/common/fsutil"
	"studiod/internal/config"
	"studiod/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the OpenAI-compatible HTTP gateway",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", envStr("STUDIOD_ADDR", ""), "Listen address, e.g. 0.0.0.0:8000")
	cmd.Flags().String("models-dir", "", "Directory for downloaded model artifacts")
	cmd.Flags().String("engine", "", "Engine: llamacpp|mlx|transformers (default follows the hardware)")
	cmd.Flags().String("model", "", "Model to load at startup (hub repo or local path)")
	cmd.Flags().Int("context-length", 0, "Context window for the startup load")
	cmd.Flags().Int("gpu-layers", -1, "Layers moved to the accelerator (-1 all, 0 CPU)")
	cmd.Flags().Int("threads", 0, "CPU inference threads (0 auto)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, &cfg)
	setupLogging(cfg.LogLevel)

	st := newStudio(cfg, &httpapi.MetricsPublisher{})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpapi.SetBaseContext(ctx)
	defer httpapi.SetBaseContext(nil)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	if cfg.CORSEnabled {
		httpapi.SetCORSOptions(true, cfg.CORSOrigins, cfg.CORSMethods, cfg.CORSHeaders)
	}

	out := cmd.OutOrStdout()
	if cfg.DefaultModel != "" {
		fmt.Fprintf(out, "Loading model: %s\n", cfg.DefaultModel)
		if _, err := st.Load(ctx, cfg.DefaultModel, loadOptionsFrom(cfg)); err != nil {
			return fmt.Errorf("startup load %s: %w", cfg.DefaultModel, err)
		}
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(st)}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "studiod listening on %s (engine: %s, models dir: %s)\n",
			cfg.Addr, st.Engine(), cfg.ModelsDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(out, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "graceful shutdown: %v\n", err)
	}
	return st.Close()
}

// applyServeFlags lets serve flags win over the configuration file. The
// addr flag defaults to STUDIOD_ADDR, so the environment slots in between
// flag and file.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v, _ := cmd.Flags().GetString("models-dir"); v != "" {
		if expanded, err := fsutil.ExpandHome(v); err == nil {
			v = expanded
		}
		cfg.ModelsDir = v
	}
	if v, _ := cmd.Flags().GetString("engine"); v != "" {
		cfg.Engine = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.DefaultModel = v
	}
	if v, _ := cmd.Flags().GetInt("context-length"); v > 0 {
		cfg.ContextLength = v
	}
	if cmd.Flags().Changed("gpu-layers") {
		v, _ := cmd.Flags().GetInt("gpu-layers")
		cfg.GPULayers = &v
	}
	if v, _ := cmd.Flags().GetInt("threads"); v > 0 {
		cfg.Threads = v
	}
}
