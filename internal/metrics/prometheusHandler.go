package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by route and status",
}, []string{"path", "status"})

var uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "document_uploads_total",
	Help: "Document uploads forwarded to the QA service, by outcome",
}, []string{"outcome"})

var rejectedUploadBatches = promauto.NewCounter(prometheus.CounterOpts{
	Name: "document_upload_batches_rejected_total",
	Help: "Upload batches where no file had an allowed extension",
})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_upload_jobs_in_queue",
	Help: "Number of upload jobs waiting for a worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_upload_worker_count",
	Help: "Number of active upload workers",
})

var loadingRequests = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "ui_loading_requests",
	Help: "User actions currently holding a loading indicator",
})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of QA service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"operation", "outcome"})

// HttpStatusRecorder remembers the status written through it.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func CountUpload(success bool) {
	if success {
		uploadsTotal.WithLabelValues("success").Inc()
		return
	}
	uploadsTotal.WithLabelValues("error").Inc()
}

func CountRejectedUploadBatch() {
	rejectedUploadBatches.Inc()
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func IncrementLoading() {
	loadingRequests.Inc()
}

func DecrementLoading() {
	loadingRequests.Dec()
}

func CaptureExecutionMetrics(operation string, err error, timeElapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	dependencyLatency.WithLabelValues(operation, outcome).Observe(timeElapsed.Seconds())
}
