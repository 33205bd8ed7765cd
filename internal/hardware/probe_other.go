//go:build !linux && !darwin

package hardware

// Unprobed platforms get conservative defaults.

func memProbe() (totalGB, availableGB float64) { return 8.0, 4.0 }

func cpuBrand() string { return "Unknown" }

func platformVersion() string { return "" }

func appleGPU() (GPU, bool) { return GPU{}, false }
