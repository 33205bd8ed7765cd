package hub

import (
	"strings"

	"studiod/internal/backend"
)

// QuantPreference orders quantization tags from most to least preferred.
// Mid-quality 4-bit variants first; they balance size and fidelity for
// consumer hardware.
var QuantPreference = []string{"Q4_K_M", "Q4_K_S", "Q5_K_M", "Q4_0", "Q5_0"}

// SelectArtifact picks the GGUF file to fetch from a repository listing.
// The first file matching the earliest preferred tag wins; when no tag
// matches, the first GGUF in listing order is used. A listing with no GGUF
// files resolves to a not-found error for the given reference.
func SelectArtifact(ref Ref, files []string) (string, error) {
	ggufs := filterGGUF(files)
	if len(ggufs) == 0 {
		return "", backend.ErrNotFound(ref.String())
	}
	for _, tag := range QuantPreference {
		for _, f := range ggufs {
			if strings.Contains(strings.ToLower(f), strings.ToLower(tag)) {
				return f, nil
			}
		}
	}
	return ggufs[0], nil
}

func filterGGUF(files []string) []string {
	out := files[:0:0]
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), ".gguf") {
			out = append(out, f)
		}
	}
	return out
}
