package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the availability and
// booking flows. calendarFailures is the side channel that distinguishes a
// calendar outage (degraded to "everything available") from a genuinely
// empty calendar, since both return the same shape to the caller.
type BookingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	calendarFailures  *prometheus.CounterVec
	webhookLatency    *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "booking",
			Name:      "availability_checks_total",
			Help:      "Total availability checks by outcome",
		}, []string{"outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		calendarFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "calendar",
			Name:      "failures_total",
			Help:      "Remote calendar failures by operation",
		}, []string{"op"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "receptionist",
			Subsystem: "assistant",
			Name:      "tool_latency_seconds",
			Help:      "Latency of assistant tool-call handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.bookingsTotal, m.calendarFailures, m.webhookLatency)
	return m
}

func (m *BookingMetrics) ObserveAvailability(outcome string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveCalendarFailure(op string) {
	if m == nil {
		return
	}
	m.calendarFailures.WithLabelValues(op).Inc()
}

func (m *BookingMetrics) ObserveToolLatency(tool string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(tool).Observe(seconds)
}
