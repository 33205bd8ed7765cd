package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"studiod/internal/studio"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studiod",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "studiod",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "studiod",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"path"},
	)

	backpressureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studiod",
			Subsystem: "http",
			Name:      "backpressure_total",
			Help:      "Total backpressure rejections (429)",
		},
		[]string{"reason"},
	)

	generationTokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "studiod",
			Subsystem: "generation",
			Name:      "tokens_total",
			Help:      "Tokens produced by finished generations",
		},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "studiod",
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of generations in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studiod",
			Subsystem: "generation",
			Name:      "completed_total",
			Help:      "Finished generations by outcome",
		},
		[]string{"outcome"},
	)

	modelLoadProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "studiod",
			Subsystem: "model",
			Name:      "load_progress",
			Help:      "Progress fraction of the most recent model load",
		},
	)

	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studiod",
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Model load attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal, httpRequestDuration, httpInflight, backpressureTotal,
		generationTokensTotal, generationDuration, generationsTotal,
		modelLoadProgress, modelLoadsTotal,
	)
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so SSE streaming keeps working
// through the middleware stack.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// MetricsMiddleware instruments requests for Prometheus.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := routePatternOrPath(r)
		method := r.Method
		httpInflight.WithLabelValues(path).Inc()
		defer httpInflight.WithLabelValues(path).Dec()

		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		statusLabel := itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, method, statusLabel).Observe(dur)
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// IncrementBackpressure is called when returning 429 to the client.
func IncrementBackpressure(reason string) {
	if reason == "" {
		reason = "unspecified"
	}
	backpressureTotal.WithLabelValues(reason).Inc()
}

// fast integer to ascii for small set of status codes
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// MetricsPublisher mirrors studio lifecycle events into Prometheus. Register
// it as the studio's event publisher so generations started from any entry
// point are counted, not only those arriving over HTTP.
type MetricsPublisher struct {
	mu    sync.Mutex
	start time.Time
}

func (p *MetricsPublisher) Publish(ev studio.Event) {
	switch ev.Name {
	case "load_progress":
		if f, ok := ev.Fields["fraction"].(float64); ok {
			modelLoadProgress.Set(f)
		}
	case "load_ready":
		modelLoadProgress.Set(1)
		modelLoadsTotal.WithLabelValues("ok").Inc()
	case "load_error":
		modelLoadsTotal.WithLabelValues("error").Inc()
	case "generate_start":
		p.mu.Lock()
		p.start = time.Now()
		p.mu.Unlock()
	case "generate_done", "generate_cancel":
		p.mu.Lock()
		start := p.start
		p.start = time.Time{}
		p.mu.Unlock()
		if !start.IsZero() {
			generationDuration.Observe(time.Since(start).Seconds())
		}
		outcome := "done"
		if ev.Name == "generate_cancel" {
			outcome = "cancel"
		}
		generationsTotal.WithLabelValues(outcome).Inc()
		if n, ok := ev.Fields["tokens"].(int); ok && n > 0 {
			generationTokensTotal.Add(float64(n))
		}
	}
}
