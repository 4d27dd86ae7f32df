package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// feed derivations, one per entry, by derived status
	FeedEntryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestone_feed_entries_total",
			Help: "Total number of derived milestone feed entries",
		},
		[]string{"status"}, // status: pending, in-progress, completed
	)

	ReminderDueCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "milestone_reminders_due_total",
			Help: "Total number of feed entries served with a due reminder",
		},
	)

	OverrideUpsertCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestone_override_upserts_total",
			Help: "Total number of override upserts",
		},
		[]string{"result"}, // result: success, not_found, invalid, failed
	)

	TemplateChangeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestone_template_changes_total",
			Help: "Total number of template catalogue changes",
		},
		[]string{"action"}, // action: create, update, delete, import
	)
)

// RecordHTTPRequestDuration records the latency of a served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementFeedEntry(status string) {
	FeedEntryCount.WithLabelValues(status).Inc()
}

func IncrementReminderDue() {
	ReminderDueCount.Inc()
}

func IncrementOverrideUpsert(result string) {
	OverrideUpsertCount.WithLabelValues(result).Inc()
}

func IncrementTemplateChange(action string) {
	TemplateChangeCount.WithLabelValues(action).Inc()
}
