package hub

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ArtifactDir returns the on-disk directory holding ref's artifacts.
func (c *Client) ArtifactDir(ref Ref) string {
	return filepath.Join(c.modelsDir, ref.Owner, ref.Name)
}

// CachedArtifact reports a previously downloaded GGUF file for ref, if one
// exists. When several are cached, the quantization preference order picks
// among them the same way a fresh listing would.
func (c *Client) CachedArtifact(ref Ref) (string, bool) {
	dir := c.ArtifactDir(ref)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".gguf") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	chosen, err := SelectArtifact(ref, names)
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, chosen), true
}
