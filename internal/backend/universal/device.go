package universal

import (
	"strings"

	"studiod/internal/hardware"
)

// Torch device names the worker accepts.
const (
	deviceCUDA = "cuda"
	deviceMPS  = "mps"
	deviceCPU  = "cpu"
)

// resolveDevice maps the hardware picture onto a torch device, probed in
// preference order.
func resolveDevice(info hardware.Info) string {
	if info.GPU.Vendor == hardware.VendorNVIDIA && info.GPU.CUDAAvailable {
		return deviceCUDA
	}
	if info.GPU.Vendor == hardware.VendorApple && info.GPU.MetalAvailable {
		return deviceMPS
	}
	return deviceCPU
}

// resolveQuant decides the effective quantized-load request. bitsandbytes
// only serves CUDA, so 4-bit/8-bit anywhere else downgrades to fp16 with
// a surfaced warning.
func resolveQuant(requested, device string) (string, string) {
	q := strings.ToLower(requested)
	if q != "4bit" && q != "8bit" {
		return "", ""
	}
	if device != deviceCUDA {
		return "", "bitsandbytes not available, loading in fp16"
	}
	return q, ""
}
