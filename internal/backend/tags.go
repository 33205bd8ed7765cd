package backend

import "strings"

// Quantization and parameter-count vocabularies recognized in artifact
// names. Ordered so coarser quantizations are checked first and the first
// hit wins.
var (
	quantTags = []string{"Q2", "Q3", "Q4", "Q5", "Q6", "Q8", "F16", "F32"}
	paramTags = []string{"1B", "3B", "7B", "8B", "13B", "14B", "30B", "33B", "34B", "70B", "72B"}

	// MLX community repos tag precision instead of GGUF quant levels.
	mlxQuantTags = []string{"4bit", "8bit", "fp16"}
)

// QuantFromName extracts a quantization tag from a model or file name, or
// returns "" when none is recognized. Matching is case-insensitive; the tag
// is returned upper-cased.
func QuantFromName(name string) string {
	upper := strings.ToUpper(name)
	for _, tag := range quantTags {
		if strings.Contains(upper, tag) {
			return tag
		}
	}
	for _, tag := range mlxQuantTags {
		if strings.Contains(strings.ToLower(name), tag) {
			return strings.ToUpper(tag)
		}
	}
	return ""
}

// ParamsFromName extracts a parameter-count tag ("7B", "70B", ...) from a
// model name, or returns "" when none is recognized.
func ParamsFromName(name string) string {
	upper := strings.ToUpper(name)
	for _, tag := range paramTags {
		if strings.Contains(upper, tag) {
			return tag
		}
	}
	return ""
}
