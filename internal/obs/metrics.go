// Package obs exposes Prometheus metrics for the routing worker.
package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldsafe_events_consumed_total",
			Help: "Total number of incident events consumed from Kafka.",
		},
		[]string{"type", "severity"},
	)

	eventsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fieldsafe_events_failed_total",
		Help: "Total number of events that failed routing.",
	})

	intentsProduced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldsafe_delivery_intents_total",
			Help: "Total number of delivery intents produced.",
		},
		[]string{"channel"},
	)

	grantsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fieldsafe_certificate_grants_expired_total",
		Help: "Total number of certificate grants expired by the periodic sweep.",
	})
)

// Init registers the worker metrics in the default registry.
func Init() {
	prometheus.MustRegister(eventsConsumed, eventsFailed, intentsProduced, grantsExpired)
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// EventConsumed records one consumed incident event.
func EventConsumed(eventType, severity string) {
	eventsConsumed.WithLabelValues(eventType, severity).Inc()
}

// EventFailed records one event that could not be routed.
func EventFailed() {
	eventsFailed.Inc()
}

// IntentProduced records one delivery intent written to the intents topic.
func IntentProduced(channel string) {
	intentsProduced.WithLabelValues(channel).Inc()
}

// GrantsExpired records grants transitioned by a sweep run.
func GrantsExpired(n int64) {
	if n > 0 {
		grantsExpired.Add(float64(n))
	}
}
