package hardware

import "strings"

// parseCPUInfo pulls the first "model name" value out of /proc/cpuinfo
// content, or returns "" when none is present.
func parseCPUInfo(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "model name") {
			continue
		}
		if _, value, ok := strings.Cut(line, ":"); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
