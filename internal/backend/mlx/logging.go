package mlx

import "github.com/rs/zerolog"

// zlog is an optional structured logger. If unset, the package stays silent.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the runner.
func SetLogger(l zerolog.Logger) { zlog = &l }
