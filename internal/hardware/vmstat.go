package hardware

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	pageSizeRe = regexp.MustCompile(`page size of (\d+) bytes`)
	numberRe   = regexp.MustCompile(`\d+`)
)

// parseVMStat computes available memory in GB from macOS vm_stat output.
// Free, inactive and speculative pages all count as reclaimable.
func parseVMStat(content string) float64 {
	lines := strings.Split(content, "\n")

	pageSize := 4096.0
	if len(lines) > 0 {
		if m := pageSizeRe.FindStringSubmatch(lines[0]); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				pageSize = v
			}
		}
	}

	var free, inactive, speculative float64
	for _, line := range lines {
		switch {
		case strings.Contains(line, "Pages free"):
			free = firstNumber(line)
		case strings.Contains(line, "Pages inactive"):
			inactive = firstNumber(line)
		case strings.Contains(line, "Pages speculative"):
			speculative = firstNumber(line)
		}
	}

	const bytesPerGB = 1 << 30
	return round1((free + inactive + speculative) * pageSize / bytesPerGB)
}

func firstNumber(line string) float64 {
	m := numberRe.FindString(line)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
