// Package logger provides pick audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// PickLogger provides a dedicated audit trail for issued and settled picks.
type PickLogger struct {
	*logrus.Entry
}

// NewPickLogger creates a new pick logger.
func NewPickLogger(baseLogger *logrus.Logger) *PickLogger {
	return &PickLogger{
		Entry: baseLogger.WithField("component", "picks"),
	}
}

// LogPredictionIssued logs an emitted prediction.
func (pl *PickLogger) LogPredictionIssued(predictionID, eventID, market, value, grade string, rawConfidence, confidence float64, warning string) {
	pl.WithFields(logrus.Fields{
		"prediction_id":  predictionID,
		"event_id":       eventID,
		"market":         market,
		"value":          value,
		"grade":          grade,
		"raw_confidence": rawConfidence,
		"confidence":     confidence,
		"warning":        warning,
	}).Info("Prediction issued")
}

// LogMarketSkipped logs a market where no pass reached the accept threshold.
func (pl *PickLogger) LogMarketSkipped(eventID, market, reason string) {
	pl.WithFields(logrus.Fields{
		"event_id": eventID,
		"market":   market,
		"reason":   reason,
	}).Info("Market skipped")
}

// LogSettlement logs a settled prediction.
func (pl *PickLogger) LogSettlement(predictionID, eventID, market, value, outcome string, homeScore, awayScore int, settledAt time.Time) {
	pl.WithFields(logrus.Fields{
		"prediction_id": predictionID,
		"event_id":      eventID,
		"market":        market,
		"value":         value,
		"outcome":       outcome,
		"home_score":    homeScore,
		"away_score":    awayScore,
		"settled_at":    settledAt.Unix(),
	}).Info("Prediction settled")
}

// LogSettlementFailure logs a prediction that could not be settled.
func (pl *PickLogger) LogSettlementFailure(predictionID, eventID, market, value string, err error) {
	pl.WithFields(logrus.Fields{
		"prediction_id": predictionID,
		"event_id":      eventID,
		"market":        market,
		"value":         value,
		"error":         err.Error(),
	}).Warn("Settlement failed")
}

// LogSuspectLines logs a posted price pair dropped at ingestion for an
// implausible bookmaker margin.
func (pl *PickLogger) LogSuspectLines(externalID, market string, vig float64) {
	pl.WithFields(logrus.Fields{
		"external_id": externalID,
		"market":      market,
		"vig":         vig,
	}).Warn("Dropped suspect lines")
}

// LogIngestionRun logs one completed provider ingestion pass.
func (pl *PickLogger) LogIngestionRun(provider string, eventsFetched, eventsUpserted int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"provider":        provider,
		"events_fetched":  eventsFetched,
		"events_upserted": eventsUpserted,
		"duration_ms":     durationMs,
	}).Info("Ingestion run completed")
}
