// Package metrics provides the centralized Prometheus metrics registry for the picks engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "predictions_issued_total",
		Help:      "Total number of predictions issued",
	}, []string{"sport", "market"})
	PredictionsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "predictions_settled_total",
		Help:      "Total number of predictions settled",
	}, []string{"market", "outcome"})
	MarketsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "markets_skipped_total",
		Help:      "Total number of markets skipped with no accepted candidate",
	}, []string{"sport", "market"})
	SettlementFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "settlement_failures_total",
		Help:      "Total number of predictions that failed to settle due to malformed values",
	})
	EventsIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "events_ingested_total",
		Help:      "Total number of events ingested from providers",
	}, []string{"provider"})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "provider_requests_total",
		Help:      "Total number of upstream provider requests",
	}, []string{"provider", "status"})
)

// Gauge metrics
var (
	PendingPredictions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharp_picks",
		Name:      "pending_predictions",
		Help:      "Number of predictions awaiting settlement",
	})
	UpcomingEvents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharp_picks",
		Name:      "upcoming_events",
		Help:      "Number of scheduled events inside the prediction window",
	}, []string{"sport"})
	LastPredictionRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharp_picks",
		Name:      "last_prediction_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed prediction run",
	})
)

// Histogram metrics
var (
	PredictionConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sharp_picks",
		Name:      "prediction_confidence",
		Help:      "Distribution of calibrated confidence for issued predictions",
		Buckets:   []float64{0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85},
	}, []string{"market"})
	ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sharp_picks",
		Name:      "scoring_duration_seconds",
		Help:      "Duration of a full event scoring run in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SettlementSweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sharp_picks",
		Name:      "settlement_sweep_duration_seconds",
		Help:      "Duration of a settlement sweep over pending predictions in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sharp_picks",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of upstream provider requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsIssuedTotal)
		registry.MustRegister(PredictionsSettledTotal)
		registry.MustRegister(MarketsSkippedTotal)
		registry.MustRegister(SettlementFailuresTotal)
		registry.MustRegister(EventsIngestedTotal)
		registry.MustRegister(ProviderRequestsTotal)

		registry.MustRegister(PendingPredictions)
		registry.MustRegister(UpcomingEvents)
		registry.MustRegister(LastPredictionRunTimestamp)

		registry.MustRegister(PredictionConfidence)
		registry.MustRegister(ScoringDuration)
		registry.MustRegister(SettlementSweepDuration)
		registry.MustRegister(ProviderRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPredictionIssued records an emitted prediction with its confidence.
func RecordPredictionIssued(sport, market string, confidence float64) {
	PredictionsIssuedTotal.WithLabelValues(sport, market).Inc()
	PredictionConfidence.WithLabelValues(market).Observe(confidence)
}

// RecordPredictionSettled records a settled prediction.
func RecordPredictionSettled(market, outcome string) {
	PredictionsSettledTotal.WithLabelValues(market, outcome).Inc()
}

// RecordMarketSkipped records a market with no accepted candidate.
func RecordMarketSkipped(sport, market string) {
	MarketsSkippedTotal.WithLabelValues(sport, market).Inc()
}

// RecordSettlementFailure records a prediction that failed to settle.
func RecordSettlementFailure() {
	SettlementFailuresTotal.Inc()
}

// RecordEventsIngested records events ingested from a provider.
func RecordEventsIngested(provider string, count int) {
	EventsIngestedTotal.WithLabelValues(provider).Add(float64(count))
}

// RecordProviderRequest records one upstream request with its latency.
func RecordProviderRequest(provider, status string, durationSeconds float64) {
	ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// UpdatePendingPredictions updates the pending predictions gauge.
func UpdatePendingPredictions(count float64) {
	PendingPredictions.Set(count)
}

// UpdateUpcomingEvents updates the upcoming events gauge for a sport.
func UpdateUpcomingEvents(sport string, count float64) {
	UpcomingEvents.WithLabelValues(sport).Set(count)
}

// RecordScoringDuration records the duration of a scoring run.
func RecordScoringDuration(durationSeconds float64) {
	ScoringDuration.Observe(durationSeconds)
}

// RecordSettlementSweepDuration records the duration of a settlement sweep.
func RecordSettlementSweepDuration(durationSeconds float64) {
	SettlementSweepDuration.Observe(durationSeconds)
}
