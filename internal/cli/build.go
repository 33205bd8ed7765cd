package cli

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"studiod/internal/backend"
	"studiod/internal/backend/llamacpp"
	"studiod/internal/backend/mlx"
	"studiod/internal/backend/universal"
	"studiod/internal/config"
	"studiod/internal/hardware"
	"studiod/internal/httpapi"
	"studiod/internal/hub"
	"studiod/internal/studio"
)

// detectHardware is swapped in tests so command output does not depend on
// the build host.
var detectHardware = hardware.Detect

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadConfig resolves the effective configuration: the --config file when
// given, package defaults otherwise. The --log-level flag (with its
// STUDIOD_LOG_LEVEL default) wins over both.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	} else {
		cfg = config.Default()
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	cfg.Normalize()
	return cfg, nil
}

// setupLogging builds the process logger and hands it to every package with
// a SetLogger hook. Level off leaves the silent defaults in place.
func setupLogging(level string) {
	lvl, ok := zerologLevel(level)
	if !ok {
		httpapi.SetLogLevel("off")
		return
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(out).With().Timestamp().Logger().Level(lvl)

	httpapi.SetLogger(logger)
	httpapi.SetLogLevel(level)
	studio.SetLogger(logger)
	hub.SetLogger(logger)
	llamacpp.SetLogger(logger)
	mlx.SetLogger(logger)
	universal.SetLogger(logger)
}

func zerologLevel(level string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return zerolog.ErrorLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	default:
		return zerolog.Disabled, false
	}
}

// newStudio assembles the runner set over a shared hub client and wraps it
// in a studio configured from cfg.
func newStudio(cfg config.Config, pub studio.EventPublisher) *studio.Studio {
	h := hub.New(hub.Config{
		ModelsDir: cfg.ModelsDir,
		Token:     cfg.HFToken,
	})
	return studio.New(studio.Config{
		Engine:       cfg.Engine,
		QueueDepth:   cfg.QueueDepth,
		MaxQueueWait: time.Duration(cfg.MaxQueueWaitSeconds) * time.Second,
		DrainTimeout: time.Duration(cfg.DrainTimeoutSeconds) * time.Second,
		Publisher:    pub,
	},
		llamacpp.New(h),
		mlx.New(),
		universal.New(universal.Config{Command: cfg.WorkerCommand}),
	)
}

// loadOptionsFrom translates config load tunables into backend options.
func loadOptionsFrom(cfg config.Config) backend.LoadOptions {
	opts := backend.DefaultLoadOptions()
	if cfg.ContextLength > 0 {
		opts.ContextLength = cfg.ContextLength
	}
	if cfg.GPULayers != nil {
		opts.AcceleratorLayers = *cfg.GPULayers
	}
	if cfg.Threads > 0 {
		opts.Threads = cfg.Threads
	}
	opts.Verbose = strings.EqualFold(cfg.LogLevel, "debug")
	return opts
}
