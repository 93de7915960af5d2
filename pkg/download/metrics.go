package download

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all wikidump metrics.
	MetricsNamespace = "wikidump"

	// MetricsSubsystem is the subsystem for download metrics.
	MetricsSubsystem = "download"
)

// Task results used as the "result" label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the Prometheus metrics of a download manager. A nil *Metrics records nothing.
type Metrics struct {
	TasksStarted     prometheus.Counter
	TasksFinished    *prometheus.CounterVec
	TasksRunning     prometheus.Gauge
	BytesFetched     prometheus.Counter
	BytesWritten     prometheus.Counter
	ChecksumFailures prometheus.Counter
}

// NewMetrics creates and registers the download metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	return &Metrics{
		TasksStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystem,
			Name:      "tasks_started_total",
			Help:      "Total number of download tasks started",
		}),
		TasksFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystem,
			Name:      "tasks_finished_total",
			Help:      "Total number of download tasks finished by result",
		}, []string{"result"}),
		TasksRunning: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystem,
			Name:      "tasks_running",
			Help:      "Number of download tasks currently running",
		}),
		BytesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystem,
			Name:      "bytes_fetched_total",
			Help:      "Total number of bytes received from mirrors",
		}),
		BytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystem,
			Name:      "bytes_written_total",
			Help:      "Total number of bytes written to destination files",
		}),
		ChecksumFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystem,
			Name:      "checksum_failures_total",
			Help:      "Total number of downloads rejected by SHA-1 verification",
		}),
	}
}

// RecordTaskStarted records a task entering the running state.
func (m *Metrics) RecordTaskStarted() {
	if m == nil {
		return
	}
	m.TasksStarted.Inc()
	m.TasksRunning.Inc()
}

// RecordTaskFinished records a task leaving the running state.
func (m *Metrics) RecordTaskFinished(err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.TasksFinished.WithLabelValues(result).Inc()
	m.TasksRunning.Dec()
}

// RecordFetched adds n received bytes.
func (m *Metrics) RecordFetched(n int) {
	if m == nil {
		return
	}
	m.BytesFetched.Add(float64(n))
}

// RecordWritten adds n bytes written to a destination.
func (m *Metrics) RecordWritten(n int) {
	if m == nil {
		return
	}
	m.BytesWritten.Add(float64(n))
}

// RecordChecksumFailure counts a rejected download.
func (m *Metrics) RecordChecksumFailure() {
	if m == nil {
		return
	}
	m.ChecksumFailures.Inc()
}
