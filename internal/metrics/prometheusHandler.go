package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var ingestedSectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ingested_sections_total",
	Help: "Document sections written to the vector store, by source kind",
}, []string{"source"})

var backgroundTasksPending = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "background_tasks_pending",
	Help: "Fire-and-forget tasks queued but not yet executed",
})

var backgroundTasksDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "background_tasks_dropped_total",
	Help: "Fire-and-forget tasks dropped because the queue was full",
})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so streamed chat responses are not
// buffered behind the recorder.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// TimeDependency records the elapsed time of one external call:
//
//	defer metrics.TimeDependency("embedding")()
func TimeDependency(service string) func() {
	start := time.Now()
	return func() {
		dependencyLatency.WithLabelValues(service).Observe(time.Since(start).Seconds())
	}
}

func CountIngestedSections(source string, n int) {
	ingestedSectionsTotal.WithLabelValues(source).Add(float64(n))
}

func IncrementPendingTasks() {
	backgroundTasksPending.Inc()
}

func DecrementPendingTasks() {
	backgroundTasksPending.Dec()
}

func CountDroppedTask() {
	backgroundTasksDropped.Inc()
}
