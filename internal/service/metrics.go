package service

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for write counters.
const (
	outcomeCreated  = "created"
	outcomeConflict = "conflict"
	outcomeUpdated  = "updated"
	outcomeDeleted  = "deleted"
)

// Metrics counts domain writes. A nil *Metrics records nothing.
type Metrics struct {
	reviews  *prometheus.CounterVec
	products *prometheus.CounterVec
}

// NewMetrics creates the domain counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reviews_writes_total",
			Help: "Review write attempts by outcome",
		}, []string{"outcome"}),
		products: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "products_writes_total",
			Help: "Product writes by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.reviews, m.products)
	return m
}

func (m *Metrics) review(outcome string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(outcome).Inc()
}

func (m *Metrics) product(outcome string) {
	if m == nil {
		return
	}
	m.products.WithLabelValues(outcome).Inc()
}
