package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records timings and row counts for enrichment runs.
type PipelineMetrics struct {
	stageDuration *prometheus.HistogramVec
	rowsEmitted   *prometheus.CounterVec
	runSuccess    prometheus.Counter
	runFailure    prometheus.Counter
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Duration of enrichment pipeline stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	rowsEmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_rows_emitted_total",
		Help: "Rows emitted per output table.",
	}, []string{"table"})
	runSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_run_success_total",
		Help: "Successful pipeline runs.",
	})
	runFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_run_failure_total",
		Help: "Failed pipeline runs.",
	})
	reg.MustRegister(stageDuration, rowsEmitted, runSuccess, runFailure)
	return &PipelineMetrics{
		stageDuration: stageDuration,
		rowsEmitted:   rowsEmitted,
		runSuccess:    runSuccess,
		runFailure:    runFailure,
	}
}

// ObserveStage records the duration for the named stage.
func (m *PipelineMetrics) ObserveStage(stage string, duration time.Duration) {
	if m == nil || m.stageDuration == nil {
		return
	}
	m.stageDuration.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

// AddRows counts rows emitted into the named output table.
func (m *PipelineMetrics) AddRows(table string, count int) {
	if m == nil || m.rowsEmitted == nil {
		return
	}
	m.rowsEmitted.WithLabelValues(normalizeLabel(table)).Add(float64(count))
}

// IncSuccess increments the successful-run counter.
func (m *PipelineMetrics) IncSuccess() {
	if m == nil || m.runSuccess == nil {
		return
	}
	m.runSuccess.Inc()
}

// IncFailure increments the failed-run counter.
func (m *PipelineMetrics) IncFailure() {
	if m == nil || m.runFailure == nil {
		return
	}
	m.runFailure.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
