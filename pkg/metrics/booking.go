package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	BookingOutcomeConfirmed    = "confirmed"
	BookingOutcomeSlotConflict = "slot_conflict"
	BookingOutcomeInvalid      = "invalid"
	BookingOutcomeError        = "error"
)

// BookingMetrics counts reservation attempts and discount grants.
type BookingMetrics struct {
	attempts       *prometheus.CounterVec
	codeCollisions prometheus.Counter
	discounts      prometheus.Counter
	cancellations  prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	m := &BookingMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reservations",
			Name:      "attempts_total",
			Help:      "Reservation attempts by outcome.",
		}, []string{"outcome"}),
		codeCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reservations",
			Name:      "confirmation_code_collisions_total",
			Help:      "Confirmation code collisions that forced a retry.",
		}),
		discounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reservations",
			Name:      "discounts_granted_total",
			Help:      "Reservations that earned a loyalty discount.",
		}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reservations",
			Name:      "cancellations_total",
			Help:      "Reservations cancelled by guests.",
		}),
	}
	reg.MustRegister(m.attempts, m.codeCollisions, m.discounts, m.cancellations)
	return m
}

func (m *BookingMetrics) IncAttempt(outcome string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *BookingMetrics) IncCodeCollision() {
	if m == nil || m.codeCollisions == nil {
		return
	}
	m.codeCollisions.Inc()
}

func (m *BookingMetrics) IncDiscount() {
	if m == nil || m.discounts == nil {
		return
	}
	m.discounts.Inc()
}

func (m *BookingMetrics) IncCancellation() {
	if m == nil || m.cancellations == nil {
		return
	}
	m.cancellations.Inc()
}
