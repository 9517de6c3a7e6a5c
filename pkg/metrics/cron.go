package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records run metadata for scheduled background jobs.
type CronJobMetrics struct {
	duration         *prometheus.HistogramVec
	success          *prometheus.CounterVec
	failure          *prometheus.CounterVec
	snapshotsWritten prometheus.Gauge
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vendortrack",
		Name:      "job_duration_seconds",
		Help:      "Duration of cron jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vendortrack",
		Name:      "job_success",
		Help:      "Successful cron job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vendortrack",
		Name:      "job_failure",
		Help:      "Failed cron job executions.",
	}, []string{"job"})
	snapshotsWritten := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vendortrack",
		Name:      "performance_snapshots_written",
		Help:      "Vendor performance rows written by the most recent snapshot run.",
	})
	reg.MustRegister(duration, success, failure, snapshotsWritten)
	return &CronJobMetrics{
		duration:         duration,
		success:          success,
		failure:          failure,
		snapshotsWritten: snapshotsWritten,
	}
}

// ObserveDuration records the duration for the named job.
func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// SetSnapshotsWritten records how many vendor snapshots the last run produced.
func (c *CronJobMetrics) SetSnapshotsWritten(count int) {
	if c == nil || c.snapshotsWritten == nil {
		return
	}
	c.snapshotsWritten.Set(float64(count))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
