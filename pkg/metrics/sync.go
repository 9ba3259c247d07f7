package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncJobMetrics records metadata for scheduled sync jobs and the per-record
// outcome counts of each batch.
type SyncJobMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	processed *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewSyncJobMetrics registers the sync job metrics on the provided registerer.
func NewSyncJobMetrics(reg prometheus.Registerer) *SyncJobMetrics {
	if reg == nil {
		return &SyncJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_job_duration_seconds",
		Help:    "Duration of sync jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_job_success",
		Help: "Successful sync job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_job_failure",
		Help: "Failed sync job executions.",
	}, []string{"job"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_processed",
		Help: "Records upserted by sync jobs.",
	}, []string{"job"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_skipped",
		Help: "Records skipped by sync jobs (unchanged or malformed).",
	}, []string{"job"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_failed",
		Help: "Records whose upsert transaction was rolled back.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure, processed, skipped, failed)
	return &SyncJobMetrics{
		duration:  duration,
		success:   success,
		failure:   failure,
		processed: processed,
		skipped:   skipped,
		failed:    failed,
	}
}

// ObserveDuration records the duration for the named job.
func (m *SyncJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (m *SyncJobMetrics) IncSuccess(job string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (m *SyncJobMetrics) IncFailure(job string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// AddRecords accumulates per-record batch outcomes for the named job.
func (m *SyncJobMetrics) AddRecords(job string, processed, skipped, failed int) {
	if m == nil || m.processed == nil {
		return
	}
	label := normalizeLabel(job)
	m.processed.WithLabelValues(label).Add(float64(processed))
	m.skipped.WithLabelValues(label).Add(float64(skipped))
	m.failed.WithLabelValues(label).Add(float64(failed))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
