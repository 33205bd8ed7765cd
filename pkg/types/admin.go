package types

// LoadRequest is the body of POST /load.
type LoadRequest struct {
	// Local path or repository reference (owner/name) of the model.
	// example: bartowski/Meta-Llama-3.1-8B-Instruct-GGUF
	Model string `json:"model" example:"bartowski/Meta-Llama-3.1-8B-Instruct-GGUF"`
	// Context window length in tokens.
	// example: 4096
	ContextLength int `json:"context_length,omitempty" example:"4096"`
	// Accelerator layers: -1 = all, 0 = CPU only.
	// example: -1
	GPULayers *int `json:"gpu_layers,omitempty" example:"-1"`
	// CPU threads; 0 auto-detects.
	// example: 0
	Threads int `json:"threads,omitempty" example:"0"`
}

// LoadResponse is returned by POST /load on success.
type LoadResponse struct {
	// Always true on success.
	// example: true
	Success bool `json:"success" example:"true"`
	// Name of the loaded model.
	// example: Meta-Llama-3.1-8B-Instruct-Q4_K_M
	Model string `json:"model" example:"Meta-Llama-3.1-8B-Instruct-Q4_K_M"`
	// Artifact size in GB (0 when the engine manages memory itself).
	// example: 4.7
	SizeGB float64 `json:"size_gb" example:"4.7"`
	// Context window length in tokens.
	// example: 4096
	ContextLength int `json:"context_length" example:"4096"`
	// Detected quantization tag, when known.
	// example: Q4
	Quantization string `json:"quantization,omitempty" example:"Q4"`
	// Detected parameter count tag, when known.
	// example: 8B
	Parameters string `json:"parameters,omitempty" example:"8B"`
}

// UnloadResponse is returned by POST /unload.
type UnloadResponse struct {
	// Always true; unloading an empty runner is a no-op.
	// example: true
	Success bool `json:"success" example:"true"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// Overall status string.
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// Whether a model is currently loaded.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
	// Name of the loaded model, empty when none.
	// example: Meta-Llama-3.1-8B-Instruct-Q4_K_M
	Model string `json:"model,omitempty" example:"Meta-Llama-3.1-8B-Instruct-Q4_K_M"`
	// Active backend engine name.
	// example: llamacpp
	Backend string `json:"backend" example:"llamacpp"`
}

// GPUInfo describes the detected GPU.
type GPUInfo struct {
	// GPU vendor (nvidia, apple, amd, intel, none).
	// example: nvidia
	Vendor string `json:"vendor" example:"nvidia"`
	// Device name.
	// example: NVIDIA GeForce RTX 4070
	Name string `json:"name" example:"NVIDIA GeForce RTX 4070"`
	// Dedicated or GPU-usable memory in GB.
	// example: 12.0
	VRAMGB float64 `json:"vram_gb" example:"12.0"`
	// Whether CUDA is usable.
	// example: true
	CUDAAvailable bool `json:"cuda_available" example:"true"`
	// Driver/CUDA version string when known.
	// example: 551.86
	CUDAVersion string `json:"cuda_version,omitempty" example:"551.86"`
	// Whether Metal is usable.
	// example: false
	MetalAvailable bool `json:"metal_available" example:"false"`
}

// HardwareResponse is returned by GET /hardware.
type HardwareResponse struct {
	// Operating system (linux, macos, windows, unknown).
	// example: linux
	Platform string `json:"platform" example:"linux"`
	// OS version string.
	// example: 6.8.0
	PlatformVersion string `json:"platform_version" example:"6.8.0"`
	// CPU model name.
	// example: AMD Ryzen 9 7950X
	CPUBrand string `json:"cpu_brand" example:"AMD Ryzen 9 7950X"`
	// Logical CPU cores.
	// example: 32
	CPUCores int `json:"cpu_cores" example:"32"`
	// Total RAM in GB.
	// example: 64.0
	RAMGB float64 `json:"ram_gb" example:"64.0"`
	// Available RAM in GB.
	// example: 48.5
	AvailableRAMGB float64 `json:"available_ram_gb" example:"48.5"`
	GPU            GPUInfo `json:"gpu"`
	// Backend the hardware favors (llama.cpp, mlx, vllm, transformers).
	// example: llama.cpp
	RecommendedBackend string `json:"recommended_backend" example:"llama.cpp"`
	// Advisory upper bound for model artifact size in GB.
	// example: 33.9
	RecommendedModelSizeGB float64 `json:"recommended_model_size_gb" example:"33.9"`
	// Compatibility verdict (ok, marginal, incompatible).
	// example: ok
	Compatibility string `json:"compatibility" example:"ok"`
}

// StatusResponse summarizes the studio for GET /status style consumers.
type StatusResponse struct {
	// Active backend engine name.
	// example: llamacpp
	Backend string `json:"backend" example:"llamacpp"`
	// Whether the engine's runtime dependency is present.
	// example: true
	Available bool `json:"available" example:"true"`
	// Whether a model is loaded.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
	// Loaded model name, empty when none.
	Model string `json:"model,omitempty"`
	// Requests waiting for the generation slot.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Whether a generation is currently in flight.
	// example: false
	Generating bool `json:"generating" example:"false"`
}

// ErrorResponse is the JSON error payload of the non-OpenAI endpoints.
type ErrorResponse struct {
	// Error message.
	// example: model not found: org/none
	Error string `json:"error" example:"model not found: org/none"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
