package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PromMetrics struct {
	created        prometheus.Counter
	completed      prometheus.Counter
	deleted        prometheus.Counter
	published      prometheus.Counter
	publishFailed  prometheus.Counter
	webhookSent    prometheus.Counter
	webhookFailed  prometheus.Counter
	requestLatency *prometheus.HistogramVec
}

func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {

	m := &PromMetrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Number of created tasks",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_completed_total",
			Help: "Number of tasks transitioned to concluida",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_deleted_total",
			Help: "Number of deleted tasks",
		}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "task_events_published_total",
			Help: "Number of published task events",
		}),
		publishFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "task_events_publish_failed_total",
			Help: "Number of task event publish failures",
		}),
		webhookSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "completion_webhooks_sent_total",
			Help: "Number of completion webhook notifications sent",
		}),
		webhookFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "completion_webhooks_failed_total",
			Help: "Number of completion webhook notification failures",
		}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "task_request_latency_seconds",
			Help:    "Latency of task operations by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(m.created, m.completed, m.deleted, m.published, m.publishFailed, m.webhookSent, m.webhookFailed, m.requestLatency)
	return m
}

func (m *PromMetrics) TaskCreated() {
	m.created.Inc()
}
func (m *PromMetrics) TaskCompleted() {
	m.completed.Inc()
}
func (m *PromMetrics) TaskDeleted() {
	m.deleted.Inc()
}
func (m *PromMetrics) EventPublished() {
	m.published.Inc()
}
func (m *PromMetrics) EventPublishFailed() {
	m.publishFailed.Inc()
}
func (m *PromMetrics) WebhookSent() {
	m.webhookSent.Inc()
}
func (m *PromMetrics) WebhookFailed() {
	m.webhookFailed.Inc()
}
func (m *PromMetrics) RequestLatency(route string, d time.Duration) {
	m.requestLatency.WithLabelValues(route).Observe(d.Seconds())
}
