package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studiod/internal/backend"
	"studiod/internal/hardware"
	"studiod/internal/studio"
)

// Service is the studio surface the HTTP layer depends on. *studio.Studio
// satisfies it; tests substitute a fake.
type Service interface {
	Engine() string
	Loaded() bool
	Info() *backend.ModelInfo
	Status() studio.Status
	Load(ctx context.Context, ref string, opts backend.LoadOptions) (*backend.ModelInfo, error)
	Unload() error
	GenerateStream(ctx context.Context, prompt string, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error)
	ChatStream(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (<-chan backend.GenerationResult, error)
	Completion(ctx context.Context, prompt string, cfg backend.GenerationConfig) (backend.GenerationResult, error)
	ChatCompletion(ctx context.Context, messages []backend.Message, cfg backend.GenerationConfig) (backend.GenerationResult, error)
}

type server struct {
	svc Service
	hw  func() hardware.Info
}

// NewMux assembles the full HTTP API over svc.
func NewMux(svc Service) http.Handler {
	s := &server{svc: svc, hw: hardware.Detect}
	return s.routes()
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(LogMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/hardware", s.handleHardware)
	r.Post("/load", s.handleLoad)
	r.Post("/unload", s.handleUnload)

	r.Get("/v1/models", s.handleModels)
	r.Post("/v1/chat/completions", s.handleChatCompletions)
	r.Post("/v1/completions", s.handleCompletions)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)
	return r
}

// requireJSON enforces a JSON content type on mutating endpoints.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !hasJSONContentType(ct) {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	return true
}

func hasJSONContentType(ct string) bool {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.EqualFold(strings.TrimSpace(ct), "application/json")
}
