package studio

import "github.com/rs/zerolog"

// zlog is an optional logger; nil disables logging.
var zlog *zerolog.Logger

// SetLogger installs a logger for studio lifecycle messages.
func SetLogger(l zerolog.Logger) { zlog = &l }
