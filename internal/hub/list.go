package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"studiod/internal/backend"
)

// repoInfo mirrors the slice of the hub model API we consume.
type repoInfo struct {
	Siblings []struct {
		Filename string `json:"rfilename"`
	} `json:"siblings"`
}

// ListFiles returns every file name the repository advertises, in listing
// order.
func (c *Client) ListFiles(ctx context.Context, ref Ref) ([]string, error) {
	url := fmt.Sprintf("%s/api/models/%s", c.baseURL, ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ref, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ref, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backend.ErrNotFound(ref.String())
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("list %s: unexpected status %d", ref, resp.StatusCode)
	}
	var info repoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("list %s: decode: %w", ref, err)
	}
	files := make([]string, 0, len(info.Siblings))
	for _, s := range info.Siblings {
		files = append(files, s.Filename)
	}
	return files, nil
}
