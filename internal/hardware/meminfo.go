package hardware

import (
	"strconv"
	"strings"
)

// parseMeminfo extracts total and available RAM in GB from /proc/meminfo
// content. Older kernels lack MemAvailable; MemFree stands in then.
func parseMeminfo(content string) (totalGB, availableGB float64) {
	values := map[string]float64{}
	for _, line := range strings.Split(content, "\n") {
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		kb, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		values[strings.TrimSpace(key)] = kb
	}

	const kbPerGB = 1024 * 1024
	totalGB = values["MemTotal"] / kbPerGB
	if avail, ok := values["MemAvailable"]; ok {
		availableGB = avail / kbPerGB
	} else {
		availableGB = values["MemFree"] / kbPerGB
	}
	return round1(totalGB), round1(availableGB)
}
