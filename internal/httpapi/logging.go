package httpapi

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. When unset the HTTP layer stays
// silent apart from panics recovered by the middleware stack.
var zlog *zerolog.Logger

// SetLogger installs a zerolog logger for the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging verbosity.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// defaultLogLevel is read once from STUDIOD_LOG_LEVEL at startup.
var defaultLogLevel = parseLevel(os.Getenv("STUDIOD_LOG_LEVEL"))

// SetLogLevel replaces the process default request log level. The CLI calls
// it with the resolved configuration value.
func SetLogLevel(s string) { defaultLogLevel = parseLevel(s) }

// requestLogLevel resolves the level for one request: the log query
// parameter wins, then the X-Log-Level header, then the process default.
func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// LogMiddleware emits one structured line per request when a logger is
// installed and the request's level is at least info.
func LogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if zlog == nil || requestLogLevel(r) < LevelInfo {
			next.ServeHTTP(w, r)
			return
		}
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sr, r)
		ev := zlog.Info()
		if sr.status >= 500 {
			ev = zlog.Error()
		}
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			ev = ev.Str("request_id", rid)
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sr.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// streamTapWriter mirrors complete SSE lines into the debug log. It buffers
// partial writes so multi-write events log as one line.
type streamTapWriter struct {
	buf []byte
}

func (tw *streamTapWriter) Write(p []byte) (int, error) {
	tw.buf = append(tw.buf, p...)
	for {
		idx := bytes.IndexByte(tw.buf, '\n')
		if idx < 0 {
			break
		}
		if line := string(tw.buf[:idx]); line != "" && zlog != nil {
			zlog.Debug().Msg("stream> " + line)
		}
		tw.buf = tw.buf[idx+1:]
	}
	return len(p), nil
}
