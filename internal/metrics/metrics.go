package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Screening outcomes used as the "outcome" label.
const (
	OutcomeHit   = "hit"
	OutcomeClear = "clear"
	OutcomeError = "error"
)

type Metrics struct {
	ScreeningsTotal   *prometheus.CounterVec
	ScreeningDuration prometheus.Histogram
	ReportsRecorded   prometheus.Counter
	NotificationsSent prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScreeningsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionwatch_screenings_total",
			Help: "Total number of sanction screenings by outcome",
		}, []string{"outcome"}),
		ScreeningDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sanctionwatch_screening_duration_seconds",
			Help:    "Duration of calls to the screening service",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ReportsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "sanctionwatch_reports_recorded_total",
			Help: "Total number of sanction reports written",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "sanctionwatch_notifications_sent_total",
			Help: "Total number of warning notifications sent to shops",
		}),
	}
}

// The methods below are no-ops on a nil receiver.

func (m *Metrics) ObserveScreening(start time.Time, outcome string) {
	if m == nil {
		return
	}
	m.ScreeningDuration.Observe(time.Since(start).Seconds())
	m.ScreeningsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementReportsRecorded() {
	if m == nil {
		return
	}
	m.ReportsRecorded.Inc()
}

func (m *Metrics) IncrementNotificationsSent() {
	if m == nil {
		return
	}
	m.NotificationsSent.Inc()
}
