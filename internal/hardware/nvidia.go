package hardware

import (
	"os/exec"
	"strconv"
	"strings"
)

// nvidiaGPU probes for an NVIDIA card through nvidia-smi. Any failure means
// "no NVIDIA GPU" rather than an error.
func nvidiaGPU() (GPU, bool) {
	smi, err := exec.LookPath("nvidia-smi")
	if err != nil {
		return GPU{}, false
	}

	out, err := exec.Command(smi, "--query-gpu=name,memory.total", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return GPU{}, false
	}
	gpu, ok := parseNvidiaSMI(string(out))
	if !ok {
		return GPU{}, false
	}

	if out, err := exec.Command(smi, "--query-gpu=driver_version", "--format=csv,noheader").Output(); err == nil {
		gpu.CUDAVersion = firstLine(string(out))
	}
	return gpu, true
}

// parseNvidiaSMI reads the first "name, vram_mib" line of nvidia-smi query
// output.
func parseNvidiaSMI(out string) (GPU, bool) {
	line := firstLine(out)
	if line == "" {
		return GPU{}, false
	}
	name, vram, ok := strings.Cut(line, ",")
	if !ok {
		return GPU{}, false
	}
	vramMiB, err := strconv.ParseFloat(strings.TrimSpace(vram), 64)
	if err != nil {
		return GPU{}, false
	}
	return GPU{
		Vendor:        VendorNVIDIA,
		Name:          strings.TrimSpace(name),
		VRAMGB:        round1(vramMiB / 1024),
		CUDAAvailable: true,
	}, true
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
