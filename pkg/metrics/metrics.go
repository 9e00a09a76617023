package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	// Ledger
	InventoryChanges *prometheus.CounterVec
	InventoryLevel   *prometheus.GaugeVec
	LowStockTypes    prometheus.Gauge

	// Requests and matching
	RequestTransitions *prometheus.CounterVec
	DonorsNotified     prometheus.Counter
	NotificationsTotal *prometheus.CounterVec

	// Delivery
	BrokerPublishes *prometheus.CounterVec
	EmailsSent      *prometheus.CounterVec

	// Background jobs
	JobRuns    *prometheus.CounterVec
	JobLatency *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		InventoryChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "changes_total",
			Help:      "Total number of committed inventory changes",
		}, []string{"action"}),
		InventoryLevel: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "units",
			Help:      "Units on hand per blood type",
		}, []string{"blood_type"}),
		LowStockTypes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "low_stock_types",
			Help:      "Number of blood types below the low stock threshold",
		}),

		RequestTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "transitions_total",
			Help:      "Urgent request status transitions",
		}, []string{"status"}),
		DonorsNotified: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "donors_notified_total",
			Help:      "Donors notified about urgent requests",
		}),
		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "Notifications persisted",
		}, []string{"type", "status"}),

		BrokerPublishes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broker",
			Name:      "publishes_total",
			Help:      "Messages published to the broker",
		}, []string{"channel", "status"}),
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "sent_total",
			Help:      "Notification emails attempted",
		}, []string{"status"}),

		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "job_runs_total",
			Help:      "Background job executions",
		}, []string{"job", "status"}),
		JobLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "job_duration_seconds",
			Help:      "Duration of background job executions",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"job"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (m *Metrics) InventoryChanged(action, bloodType string, quantity int) {
	if m == nil {
		return
	}
	m.InventoryChanges.WithLabelValues(action).Inc()
	m.InventoryLevel.WithLabelValues(bloodType).Set(float64(quantity))
}

func (m *Metrics) SetLowStock(n int) {
	if m == nil {
		return
	}
	m.LowStockTypes.Set(float64(n))
}

func (m *Metrics) RequestTransition(to string) {
	if m == nil {
		return
	}
	m.RequestTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) Notified(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DonorsNotified.Add(float64(n))
}

func (m *Metrics) NotificationCreated(notificationType string, err error) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(notificationType, status(err)).Inc()
}

func (m *Metrics) Published(channel string, err error) {
	if m == nil {
		return
	}
	m.BrokerPublishes.WithLabelValues(channel, status(err)).Inc()
}

func (m *Metrics) EmailSent(err error) {
	if m == nil {
		return
	}
	m.EmailsSent.WithLabelValues(status(err)).Inc()
}

// ObserveJob records one run of a background job.
func (m *Metrics) ObserveJob(job string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, status(err)).Inc()
	m.JobLatency.WithLabelValues(job).Observe(seconds)
}
