// Package config loads the studiod configuration file. The format follows
// the extension: .toml, .yaml/.yml or .json. Zero values mean "unspecified";
// Normalize fills the documented defaults so flag handling in cmd can layer
// overrides on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"studiod/internal/common/fsutil"
)

// Config holds runtime parameters for the studiod server and CLI.
type Config struct {
	// Addr is the listen address of the HTTP gateway.
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// ModelsDir is where downloaded artifacts land. Supports ~ expansion.
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`

	// Engine picks the backend: llamacpp, mlx, transformers, or empty for
	// hardware-based selection.
	Engine string `json:"engine" yaml:"engine" toml:"engine"`
	// DefaultModel, when set, is loaded at startup.
	DefaultModel string `json:"default_model" yaml:"default_model" toml:"default_model"`

	// ContextLength is the context window for loads; 0 means 4096.
	ContextLength int `json:"context_length" yaml:"context_length" toml:"context_length"`
	// GPULayers moved to the accelerator: -1 all, 0 CPU only. Unset means -1.
	GPULayers *int `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers"`
	// Threads for CPU inference; 0 auto-detects.
	Threads int `json:"threads" yaml:"threads" toml:"threads"`

	// QueueDepth bounds requests waiting for the generation slot.
	QueueDepth int `json:"queue_depth" yaml:"queue_depth" toml:"queue_depth"`
	// MaxQueueWaitSeconds bounds how long a request may wait queued.
	MaxQueueWaitSeconds int `json:"max_queue_wait_seconds" yaml:"max_queue_wait_seconds" toml:"max_queue_wait_seconds"`
	// DrainTimeoutSeconds bounds how long unload waits for in-flight work.
	DrainTimeoutSeconds int `json:"drain_timeout_seconds" yaml:"drain_timeout_seconds" toml:"drain_timeout_seconds"`

	// MaxBodyBytes caps JSON request bodies; 0 keeps the 1 MiB default.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`

	// CORS is opt-in; empty lists fall back to permissive library defaults.
	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	CORSMethods []string `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods"`
	CORSHeaders []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers"`

	// LogLevel is off, error, info or debug.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	// HFToken authenticates hub requests so gated repos resolve. The
	// HF_TOKEN environment variable wins over the file value.
	HFToken string `json:"hf_token" yaml:"hf_token" toml:"hf_token"`

	// WorkerCommand overrides discovery of the transformers worker.
	WorkerCommand []string `json:"worker_command" yaml:"worker_command" toml:"worker_command"`
}

// Defaults mirrored from the original front-end: listen on all interfaces,
// port 8000, artifacts under the user's studiod directory.
const (
	DefaultAddr      = "0.0.0.0:8000"
	DefaultModelsDir = "~/.studiod/models"
)

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.Normalize()
	return cfg
}

// Load reads a configuration file based on its extension.
// Supports: .toml, .yaml/.yml, .json.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize fills unset fields with defaults and expands paths. It is safe
// to call more than once.
func (c *Config) Normalize() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if expanded, err := fsutil.ExpandHome(c.ModelsDir); err == nil {
		c.ModelsDir = expanded
	}
	if c.ContextLength <= 0 {
		c.ContextLength = 4096
	}
	if c.GPULayers == nil {
		all := -1
		c.GPULayers = &all
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = 32
	}
	if c.MaxQueueWaitSeconds <= 0 {
		c.MaxQueueWaitSeconds = 30
	}
	if c.DrainTimeoutSeconds <= 0 {
		c.DrainTimeoutSeconds = 10
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if tok := os.Getenv("HF_TOKEN"); tok != "" {
		c.HFToken = tok
	}
}

func (c *Config) validate() error {
	switch c.Engine {
	case "", "llamacpp", "mlx", "transformers":
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	switch c.LogLevel {
	case "", "off", "error", "info", "debug":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must be non-negative")
	}
	return nil
}
