package hardware

import (
	"os"
	"strings"
)

func memProbe() (totalGB, availableGB float64) {
	content, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 8.0, 4.0
	}
	return parseMeminfo(string(content))
}

func cpuBrand() string {
	content, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return "Unknown"
	}
	if brand := parseCPUInfo(string(content)); brand != "" {
		return brand
	}
	return "Unknown"
}

func platformVersion() string {
	content, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

// appleGPU never matches on Linux.
func appleGPU() (GPU, bool) { return GPU{}, false }
