package middleware

import (
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type telemetryRecorder struct {
	response http.ResponseWriter
	status   int
	bytes    int
}

func (r *telemetryRecorder) Header() http.Header {
	return r.response.Header()
}

func (r *telemetryRecorder) WriteHeader(status int) {
	r.status = status
	r.response.WriteHeader(status)
}

func (r *telemetryRecorder) Write(data []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.response.Write(data)
	r.bytes += n
	return n, err
}

// latencyAggregator keeps a rolling per-route window so every request log
// line carries current p50/p95 for its route.
type latencyAggregator struct {
	mu     sync.Mutex
	window int
	routes map[string][]int64
}

func newLatencyAggregator(window int) *latencyAggregator {
	return &latencyAggregator{window: window, routes: make(map[string][]int64)}
}

func (a *latencyAggregator) record(key string, value int64) (int64, int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	samples := append(a.routes[key], value)
	if len(samples) > a.window {
		samples = samples[len(samples)-a.window:]
	}
	a.routes[key] = samples

	sorted := make([]int64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return percentile(sorted, 0.5), percentile(sorted, 0.95)
}

func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

var telemetryLatency = newLatencyAggregator(200)

func Telemetry(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &telemetryRecorder{response: w}

			next.ServeHTTP(recorder, r)

			status := recorder.status
			if status == 0 {
				status = http.StatusOK
			}
			if logger == nil {
				return
			}

			routePattern := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				routePattern = rc.RoutePattern()
			}
			metricKey := r.Method + " " + routePattern
			if routePattern == "" {
				metricKey = r.Method + " " + r.URL.Path
			}

			duration := time.Since(start)
			p50, p95 := telemetryLatency.record(metricKey, duration.Milliseconds())
			logger.Info(
				"http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("routePattern", routePattern),
				zap.String("requestId", strings.TrimSpace(r.Header.Get(requestIDHeader))),
				zap.Int("status", status),
				zap.Int("bytes", recorder.bytes),
				zap.Int64("duration_ms", duration.Milliseconds()),
				zap.Int64("p50_ms", p50),
				zap.Int64("p95_ms", p95),
				zap.Bool("error", status >= 500),
			)
		})
	}
}
