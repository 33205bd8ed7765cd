package hardware

import (
	"os/exec"
	"strconv"
	"strings"
)

func sysctl(name string) (string, error) {
	out, err := exec.Command("sysctl", "-n", name).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func memProbe() (totalGB, availableGB float64) {
	totalGB, availableGB = 8.0, 4.0

	if v, err := sysctl("hw.memsize"); err == nil {
		if bytes, err := strconv.ParseFloat(v, 64); err == nil {
			totalGB = round1(bytes / (1 << 30))
		}
	}
	if out, err := exec.Command("vm_stat").Output(); err == nil {
		availableGB = parseVMStat(string(out))
	}
	return totalGB, availableGB
}

func cpuBrand() string {
	if v, err := sysctl("machdep.cpu.brand_string"); err == nil && v != "" {
		return v
	}
	return "Unknown"
}

func platformVersion() string {
	out, err := exec.Command("sw_vers", "-productVersion").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// appleGPU reports the integrated GPU on Apple silicon. The GPU shares
// unified memory; most of it is addressable by Metal.
func appleGPU() (GPU, bool) {
	brand := cpuBrand()
	if !strings.Contains(brand, "Apple") {
		return GPU{}, false
	}
	v, err := sysctl("hw.memsize")
	if err != nil {
		return GPU{}, false
	}
	bytes, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return GPU{}, false
	}
	unifiedGB := bytes / (1 << 30)
	return GPU{
		Vendor:         VendorApple,
		Name:           brand + " GPU",
		VRAMGB:         round1(unifiedGB * 0.75),
		MetalAvailable: true,
	}, true
}
