// Package logger provides prediction sync logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SyncLogger provides dedicated logging for prediction run syncs.
type SyncLogger struct {
	*logrus.Entry
}

// NewSyncLogger creates a new sync logger.
func NewSyncLogger(baseLogger *logrus.Logger) *SyncLogger {
	return &SyncLogger{
		Entry: baseLogger.WithField("component", "sync"),
	}
}

// LogSyncStarted logs the start of a sync for one prediction date.
func (sl *SyncLogger) LogSyncStarted(runID, league, predictionDate string) {
	sl.WithFields(logrus.Fields{
		"run_id":          runID,
		"league":          league,
		"prediction_date": predictionDate,
	}).Info("Prediction sync started")
}

// LogRunStored logs a completed sync and what it wrote.
func (sl *SyncLogger) LogRunStored(league, predictionDate, outcome string, games, finalScores int, durationMs int64) {
	sl.WithFields(logrus.Fields{
		"league":           league,
		"prediction_date":  predictionDate,
		"outcome":          outcome,
		"games":            games,
		"final_scores":     finalScores,
		"sync_duration_ms": durationMs,
	}).Info("Prediction run stored")
}

// LogScoreChange logs a game whose final score appeared or changed.
func (sl *SyncLogger) LogScoreChange(predictionDate string, gamePk int64, home, away string) {
	sl.WithFields(logrus.Fields{
		"prediction_date": predictionDate,
		"game_pk":         gamePk,
		"home_goals":      home,
		"away_goals":      away,
		"event_type":      "score_change",
	}).Info("Final score recorded")
}

// LogSyncFailed logs a failed sync.
func (sl *SyncLogger) LogSyncFailed(runID, league, predictionDate string, err error) {
	sl.WithFields(logrus.Fields{
		"run_id":          runID,
		"league":          league,
		"prediction_date": predictionDate,
	}).WithError(err).Error("Prediction sync failed")
}
