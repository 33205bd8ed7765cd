package hardware

import "testing"

func TestParseNvidiaSMI(t *testing.T) {
	gpu, ok := parseNvidiaSMI("NVIDIA GeForce RTX 3080, 10240\n")
	if !ok {
		t.Fatalf("parseNvidiaSMI rejected valid output")
	}
	if gpu.Vendor != VendorNVIDIA {
		t.Fatalf("vendor = %q", gpu.Vendor)
	}
	if gpu.Name != "NVIDIA GeForce RTX 3080" {
		t.Fatalf("name = %q", gpu.Name)
	}
	if gpu.VRAMGB != 10.0 {
		t.Fatalf("vram = %v, want 10.0", gpu.VRAMGB)
	}
	if !gpu.CUDAAvailable {
		t.Fatalf("cuda not flagged available")
	}
}

func TestParseNvidiaSMIMultiGPU(t *testing.T) {
	out := "NVIDIA A100-SXM4-40GB, 40960\nNVIDIA A100-SXM4-40GB, 40960\n"
	gpu, ok := parseNvidiaSMI(out)
	if !ok || gpu.Name != "NVIDIA A100-SXM4-40GB" || gpu.VRAMGB != 40.0 {
		t.Fatalf("parseNvidiaSMI = %+v, %v", gpu, ok)
	}
}

func TestParseNvidiaSMIBadOutput(t *testing.T) {
	for _, out := range []string{"", "\n", "no comma here", "name, not-a-number"} {
		if _, ok := parseNvidiaSMI(out); ok {
			t.Fatalf("parseNvidiaSMI accepted %q", out)
		}
	}
}
