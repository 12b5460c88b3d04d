package metrics

import (
	"time"

	"hr_evaluation_reminder/internal/app"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements app.Metrics.
type PrometheusMetrics struct {
	cycles            prometheus.Counter
	cycleDuration     prometheus.Histogram
	remindersSent     *prometheus.CounterVec
	batchFailures     *prometheus.CounterVec
	remindersSkipped  *prometheus.CounterVec
	notRecorded       prometheus.Counter
	vendorNotices     *prometheus.CounterVec
	separationMatched prometheus.Counter
}

// NewPrometheusMetrics registers the collectors on reg (prometheus.DefaultRegisterer in production).
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	f := promauto.With(reg)
	return &PrometheusMetrics{
		cycles: f.NewCounter(prometheus.CounterOpts{
			Name: "hr_reminder_cycles_total",
			Help: "Total number of completed reminder cycles.",
		}),
		cycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hr_reminder_cycle_duration_seconds",
			Help:    "Duration of reminder cycles.",
			Buckets: prometheus.DefBuckets,
		}),
		remindersSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_reminders_sent_total",
			Help: "Employees covered by successfully sent reminder emails.",
		}, []string{"type"}),
		batchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_reminder_batch_failures_total",
			Help: "Reminder batches whose email could not be sent.",
		}, []string{"type"}),
		remindersSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_reminders_skipped_total",
			Help: "Pending obligations skipped before dispatch.",
		}, []string{"reason"}),
		notRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "hr_reminders_not_recorded_total",
			Help: "Reminders sent but missing from the send log.",
		}),
		vendorNotices: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_vendor_notices_total",
			Help: "Vendor separation notices by outcome.",
		}, []string{"status"}),
		separationMatched: f.NewCounter(prometheus.CounterOpts{
			Name: "hr_separations_matched_total",
			Help: "Separated employees matched by notify requests.",
		}),
	}
}

var _ app.Metrics = (*PrometheusMetrics)(nil)

func (m *PrometheusMetrics) ObserveReminderCycle(s *app.RunSummary, elapsed time.Duration) {
	m.cycles.Inc()
	m.cycleDuration.Observe(elapsed.Seconds())
	for _, r := range s.Sent {
		m.remindersSent.WithLabelValues(r.Type).Inc()
	}
	for _, f := range s.Failures {
		m.batchFailures.WithLabelValues(f.Type).Inc()
	}
	m.remindersSkipped.WithLabelValues("invalid_email").Add(float64(s.SkippedInvalidEmail))
	m.remindersSkipped.WithLabelValues("already_sent").Add(float64(s.SkippedAlreadySent))
	m.notRecorded.Add(float64(s.NotRecorded))
}

func (m *PrometheusMetrics) ObserveSeparationNotice(s *app.SeparationSummary) {
	m.separationMatched.Add(float64(s.Matched))
	for _, r := range s.Results {
		if r.Sent {
			m.vendorNotices.WithLabelValues("sent").Inc()
		} else {
			m.vendorNotices.WithLabelValues("failed").Inc()
		}
	}
}
