package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"studiod/internal/config"
)

// probeConfig executes a throwaway subcommand so loadConfig sees the
// root's persistent flags the way a real run does.
func probeConfig(t *testing.T, args ...string) config.Config {
	t.Helper()
	var got config.Config
	probe := &cobra.Command{Use: "probe", RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		got = cfg
		return nil
	}}
	root := NewRootCmd()
	root.AddCommand(probe)
	root.SetArgs(append([]string{"probe"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return got
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STUDIOD_LOG_LEVEL", "")
	cfg := probeConfig(t)
	if cfg.Addr != config.DefaultAddr {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level=%q", cfg.LogLevel)
	}
}

func TestLoadConfig_FileAndFlagPrecedence(t *testing.T) {
	t.Setenv("STUDIOD_LOG_LEVEL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("addr: :9999\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := probeConfig(t, "--config", path)
	if cfg.Addr != ":9999" || cfg.LogLevel != "debug" {
		t.Fatalf("file not applied: %+v", cfg)
	}

	cfg = probeConfig(t, "--config", path, "--log-level", "off")
	if cfg.LogLevel != "off" {
		t.Fatalf("flag should beat file: %q", cfg.LogLevel)
	}
}

func TestLoadConfig_BadFile(t *testing.T) {
	probe := &cobra.Command{Use: "probe", RunE: func(cmd *cobra.Command, args []string) error {
		_, err := loadConfig(cmd)
		return err
	}}
	root := NewRootCmd()
	root.AddCommand(probe)
	root.SetArgs([]string{"probe", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadOptionsFrom(t *testing.T) {
	opts := loadOptionsFrom(config.Config{})
	if opts.ContextLength != 4096 || opts.AcceleratorLayers != -1 {
		t.Fatalf("defaults: %+v", opts)
	}

	zero := 0
	cfg := config.Config{ContextLength: 8192, GPULayers: &zero, Threads: 4}
	opts = loadOptionsFrom(cfg)
	if opts.ContextLength != 8192 || opts.AcceleratorLayers != 0 || opts.Threads != 4 {
		t.Fatalf("overrides: %+v", opts)
	}
	if opts.Verbose {
		t.Fatalf("verbose should follow debug log level only")
	}

	cfg.LogLevel = "debug"
	if opts = loadOptionsFrom(cfg); !opts.Verbose {
		t.Fatalf("debug log level should enable verbose loads")
	}
}

func TestZerologLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{"error", zerolog.ErrorLevel, true},
		{"info", zerolog.InfoLevel, true},
		{"DEBUG", zerolog.DebugLevel, true},
		{"off", zerolog.Disabled, false},
		{"", zerolog.Disabled, false},
		{"weird", zerolog.Disabled, false},
	}
	for _, c := range cases {
		got, ok := zerologLevel(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("zerologLevel(%q) = %v,%v", c.in, got, ok)
		}
	}
}

func TestApplyServeFlags(t *testing.T) {
	cmd := newServeCmd()
	err := cmd.ParseFlags([]string{
		"--addr", ":7070",
		"--model", "org/model",
		"--gpu-layers", "0",
		"--context-length", "8192",
		"--threads", "6",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := config.Default()
	applyServeFlags(cmd, &cfg)
	if cfg.Addr != ":7070" || cfg.DefaultModel != "org/model" {
		t.Fatalf("cfg: %+v", cfg)
	}
	if cfg.GPULayers == nil || *cfg.GPULayers != 0 {
		t.Fatalf("gpu layers: %v", cfg.GPULayers)
	}
	if cfg.ContextLength != 8192 || cfg.Threads != 6 {
		t.Fatalf("cfg: %+v", cfg)
	}
}

func TestApplyServeFlags_UntouchedKeepsConfig(t *testing.T) {
	cmd := newServeCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := config.Default()
	cfg.Addr = ":5555"
	applyServeFlags(cmd, &cfg)
	if cfg.Addr != ":5555" {
		t.Fatalf("addr overwritten: %q", cfg.Addr)
	}
	if cfg.GPULayers == nil || *cfg.GPULayers != -1 {
		t.Fatalf("gpu layers default lost: %v", cfg.GPULayers)
	}
}

func TestServeAddrEnvDefault(t *testing.T) {
	t.Setenv("STUDIOD_ADDR", ":6060")
	cmd := newServeCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := config.Default()
	applyServeFlags(cmd, &cfg)
	if cfg.Addr != ":6060" {
		t.Fatalf("env default not applied: %q", cfg.Addr)
	}
}
