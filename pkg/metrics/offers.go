package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OfferMetrics records write/read activity of the offer engine.
type OfferMetrics struct {
	upserts      *prometheus.CounterVec
	listDuration *prometheus.HistogramVec
}

// NewOfferMetrics registers the offer engine metrics on the provided registerer.
func NewOfferMetrics(reg prometheus.Registerer) *OfferMetrics {
	if reg == nil {
		return &OfferMetrics{}
	}
	upserts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_upserts_total",
		Help: "Offer submissions by outcome.",
	}, []string{"result"})
	listDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "offer_list_duration_seconds",
		Help:    "Duration of offer list queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"filtered"})
	reg.MustRegister(upserts, listDuration)
	return &OfferMetrics{
		upserts:      upserts,
		listDuration: listDuration,
	}
}

// IncUpsert increments the submission counter for the given outcome
// ("inserted", "updated" or "rejected").
func (m *OfferMetrics) IncUpsert(result string) {
	if m == nil || m.upserts == nil {
		return
	}
	m.upserts.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveListDuration records how long a list query took. filtered reports
// whether any caller filter was applied.
func (m *OfferMetrics) ObserveListDuration(filtered bool, duration time.Duration) {
	if m == nil || m.listDuration == nil {
		return
	}
	label := "no"
	if filtered {
		label = "yes"
	}
	m.listDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// Handler exposes the registry over HTTP for scraping.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
