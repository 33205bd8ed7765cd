package hub

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-getter"

	"studiod/internal/backend"
)

// FetchOptions carries the two progress channels a fetch can feed.
type FetchOptions struct {
	// Progress receives byte-level download updates.
	Progress ProgressFunc
	// Status receives coarse lifecycle lines (selection, retries) the way
	// load progress is reported to users.
	Status backend.ProgressFunc
}

func (o FetchOptions) status(msg string, fraction float64) {
	if o.Status != nil {
		o.Status(msg, fraction)
	}
}

// Fetch materializes ref's artifact under the models directory and returns
// its path. A cached artifact short-circuits without touching the network.
// Otherwise the listing, selection and download run inside the retry policy;
// transient network failures are re-attempted with growing waits while hard
// misses and cancellations abort immediately.
func (c *Client) Fetch(ctx context.Context, ref Ref, opts FetchOptions) (string, error) {
	if path, ok := c.CachedArtifact(ref); ok {
		if zlog != nil {
			zlog.Info().Str("repo", ref.String()).Str("path", path).Msg("artifact cached")
		}
		return path, nil
	}

	opts.status("Finding optimal model file...", 0.1)

	var path string
	op := func() error {
		files, err := c.ListFiles(ctx, ref)
		if err != nil {
			return classify(err)
		}
		file, err := SelectArtifact(ref, files)
		if err != nil {
			return classify(err)
		}
		opts.status(fmt.Sprintf("Downloading %s...", file), 0.2)
		p, err := c.download(ctx, ref, file, opts.Progress)
		if err != nil {
			return classify(err)
		}
		path = p
		return nil
	}
	notify := func(err error, wait time.Duration) {
		opts.status(fmt.Sprintf("Connection error, retrying in %gs...", wait.Seconds()), 0.1)
		if zlog != nil {
			zlog.Warn().Err(err).Dur("wait", wait).Str("repo", ref.String()).Msg("download retry")
		}
	}

	if err := backoff.RetryNotify(op, c.retryPolicy(ctx), notify); err != nil {
		if backend.IsCancelled(err) || backend.IsNotFound(err) {
			return "", err
		}
		return "", backend.ErrRuntime(fmt.Sprintf("download failed: %v", err))
	}
	if zlog != nil {
		zlog.Info().Str("repo", ref.String()).Str("path", path).Msg("download complete")
	}
	return path, nil
}

// download pulls one artifact file into the repo's cache directory.
func (c *Client) download(ctx context.Context, ref Ref, file string, progress ProgressFunc) (string, error) {
	dir := c.ArtifactDir(ref)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("download %s: %w", file, err)
	}
	dst := filepath.Join(dir, file)
	src := fmt.Sprintf("%s/%s/resolve/main/%s", c.baseURL, ref, file)

	var getters map[string]getter.Getter
	if c.token != "" {
		authed := &getter.HttpGetter{
			Header: map[string][]string{
				"Authorization": {"Bearer " + c.token},
			},
		}
		getters = map[string]getter.Getter{
			"https": authed,
			"http":  authed,
		}
	}

	pr := progressReader{progress: progress}
	client := getter.Client{
		Ctx:              ctx,
		Src:              src,
		Dst:              dst,
		Mode:             getter.ClientModeFile,
		ProgressListener: &pr,
		Getters:          getters,
	}
	if err := client.Get(); err != nil {
		if ctx.Err() != nil {
			return "", backend.ErrCancelled("download cancelled: " + ref.String())
		}
		return "", fmt.Errorf("download %s: %w", file, err)
	}
	return dst, nil
}
