package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters for dialogue turns and calendar
// mutations. All methods are safe on a nil receiver so callers can wire
// metrics optionally.
type AssistantMetrics struct {
	turnsTotal     *prometheus.CounterVec
	bookedTotal    prometheus.Counter
	cancelledTotal prometheus.Counter
	movedTotal     prometheus.Counter
	conflictsTotal prometheus.Counter
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicebook",
			Subsystem: "assistant",
			Name:      "turns_total",
			Help:      "Total processed utterances by classified intent",
		}, []string{"intent"}),
		bookedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voicebook",
			Subsystem: "assistant",
			Name:      "appointments_booked_total",
			Help:      "Total appointments created by a finalized booking",
		}),
		cancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voicebook",
			Subsystem: "assistant",
			Name:      "appointments_cancelled_total",
			Help:      "Total appointments removed by a cancel",
		}),
		movedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voicebook",
			Subsystem: "assistant",
			Name:      "appointments_rescheduled_total",
			Help:      "Total appointments moved by a reschedule",
		}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voicebook",
			Subsystem: "assistant",
			Name:      "booking_conflicts_total",
			Help:      "Total bookings rejected for overlapping an existing call",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.bookedTotal, m.cancelledTotal, m.movedTotal, m.conflictsTotal)
	return m
}

func (m *AssistantMetrics) ObserveTurn(intent string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent).Inc()
}

func (m *AssistantMetrics) ObserveBooked() {
	if m == nil {
		return
	}
	m.bookedTotal.Inc()
}

func (m *AssistantMetrics) ObserveCancelled() {
	if m == nil {
		return
	}
	m.cancelledTotal.Inc()
}

func (m *AssistantMetrics) ObserveRescheduled() {
	if m == nil {
		return
	}
	m.movedTotal.Inc()
}

func (m *AssistantMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}
