package llamacpp

import (
	"context"
	"os"
	"strings"

	"studiod/internal/backend"
	"studiod/internal/common/fsutil"
	"studiod/internal/hub"
)

// resolve turns a model reference into a local file path. Anything that
// exists on disk is used as-is; a "owner/name" shape that does not exist
// locally is fetched from the hub.
func (r *Runner) resolve(ctx context.Context, ref string, opts backend.LoadOptions) (string, error) {
	if !strings.Contains(ref, "/") || fsutil.PathExists(ref) {
		return ref, nil
	}

	opts.Report("Finding model file...", 0.1)
	href, err := hub.ParseRef(ref)
	if err != nil {
		return "", err
	}
	if r.hub == nil {
		return "", backend.ErrUnavailable("no hub client configured; cannot fetch " + ref)
	}
	if _, cached := r.hub.CachedArtifact(href); !cached {
		opts.Report("Downloading model (this may take a while)...", 0.2)
	}
	return r.hub.Fetch(ctx, href, hub.FetchOptions{
		Status:   opts.Progress,
		Progress: downloadLogger(),
	})
}

// downloadLogger routes byte-level download progress into the structured
// log when one is installed.
func downloadLogger() hub.ProgressFunc {
	if zlog == nil {
		return nil
	}
	return func(file string, current, total int64, mibPerSec float64, complete bool) {
		ev := zlog.Debug().Str("file", file).Int64("bytes", current).Int64("total", total).Float64("mib_per_sec", mibPerSec)
		if complete {
			ev = zlog.Info().Str("file", file).Int64("bytes", current)
		}
		ev.Msg("download progress")
	}
}

// fileSizeGB stats path and reports its size in GB.
func fileSizeGB(path string) (float64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return float64(st.Size()) / (1 << 30), nil
}
