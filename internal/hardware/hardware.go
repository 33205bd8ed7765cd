// Package hardware probes the host machine and turns what it finds into
// backend and model-size recommendations.
//
// Files:
// - hardware.go: types, Detect and the recommendation rules
// - meminfo.go / vmstat.go / cpuinfo.go / nvidia.go: portable probe parsers
// - probe_linux.go / probe_darwin.go / probe_other.go: per-OS probe glue
package hardware

import (
	"math"
	"runtime"
)

// Platform names reported to clients.
const (
	PlatformLinux   = "linux"
	PlatformMacOS   = "macos"
	PlatformWindows = "windows"
	PlatformUnknown = "unknown"
)

// GPU vendors.
const (
	VendorNVIDIA = "nvidia"
	VendorAMD    = "amd"
	VendorApple  = "apple"
	VendorIntel  = "intel"
	VendorNone   = "none"
)

// Backend names a recommendation can carry.
const (
	BackendLlamaCPP     = "llama.cpp"
	BackendMLX          = "mlx"
	BackendTransformers = "transformers"
	BackendVLLM         = "vllm"
)

// Compatibility verdicts.
const (
	CompatOK           = "ok"
	CompatMarginal     = "marginal"
	CompatIncompatible = "incompatible"
)

// GPU describes the accelerator, if any.
type GPU struct {
	Vendor         string
	Name           string
	VRAMGB         float64
	CUDAAvailable  bool
	CUDAVersion    string
	MetalAvailable bool
}

// Info is the full hardware picture with recommendations filled in.
type Info struct {
	Platform               string
	PlatformVersion        string
	CPUBrand               string
	CPUCores               int
	RAMGB                  float64
	AvailableRAMGB         float64
	GPU                    GPU
	RecommendedBackend     string
	RecommendedModelSizeGB float64
}

// Detect probes the host and returns the assembled Info. Probe failures
// degrade to conservative defaults rather than errors; a front-end must
// come up even when the host is odd.
func Detect() Info {
	info := Info{
		Platform:        platformName(),
		PlatformVersion: platformVersion(),
		CPUBrand:        cpuBrand(),
		CPUCores:        runtime.NumCPU(),
	}
	info.RAMGB, info.AvailableRAMGB = memProbe()

	gpu, ok := nvidiaGPU()
	if !ok {
		gpu, ok = appleGPU()
	}
	if !ok {
		gpu = GPU{Vendor: VendorNone, Name: "None"}
	}
	info.GPU = gpu

	info.RecommendedBackend = RecommendBackend(info)
	info.RecommendedModelSizeGB = RecommendModelSize(info)
	return info
}

func platformName() string {
	switch runtime.GOOS {
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// RecommendBackend picks the engine this machine runs best.
func RecommendBackend(info Info) string {
	if info.GPU.Vendor == VendorApple && info.GPU.MetalAvailable {
		return BackendMLX
	}
	if info.GPU.Vendor == VendorNVIDIA && info.GPU.CUDAAvailable {
		if info.Platform == PlatformLinux && info.GPU.VRAMGB >= 8 {
			return BackendVLLM
		}
		return BackendLlamaCPP
	}
	return BackendLlamaCPP
}

// RecommendModelSize returns the largest model footprint in GB worth
// loading, preferring dedicated GPU memory over system RAM and keeping
// headroom for the KV cache.
func RecommendModelSize(info Info) float64 {
	available := info.AvailableRAMGB
	if info.GPU.Vendor != VendorNone && info.GPU.VRAMGB > 0 {
		available = info.GPU.VRAMGB
	}
	return math.Max(1.0, available*0.7)
}

// Compatibility classifies the host: below 4GB RAM nothing works, 8GB RAM
// or a 4GB GPU runs comfortably, anything between limps along.
func Compatibility(info Info) string {
	if info.RAMGB < 4 {
		return CompatIncompatible
	}
	if info.RAMGB >= 8 || info.GPU.VRAMGB >= 4 {
		return CompatOK
	}
	return CompatMarginal
}

// round1 keeps one decimal of a GB figure.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
