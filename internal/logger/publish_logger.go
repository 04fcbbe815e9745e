// Package logger provides social publishing audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// PublishLogger provides an audit trail for social card posts.
type PublishLogger struct {
	*logrus.Entry
}

// NewPublishLogger creates a new publish logger.
func NewPublishLogger(baseLogger *logrus.Logger) *PublishLogger {
	return &PublishLogger{
		Entry: baseLogger.WithField("component", "social"),
	}
}

// LogPostSkipped logs a run that was not ready to post.
func (pl *PublishLogger) LogPostSkipped(predictionDate, reason string) {
	pl.WithFields(logrus.Fields{
		"prediction_date": predictionDate,
		"event_type":      "skipped",
		"reason":          reason,
	}).Info("Social post skipped")
}

// LogPostPublished logs a posted prediction card.
func (pl *PublishLogger) LogPostPublished(predictionDate string, chatID int64, messageID int, imageBytes int, timestamp time.Time) {
	pl.WithFields(logrus.Fields{
		"prediction_date": predictionDate,
		"chat_id":         chatID,
		"message_id":      messageID,
		"image_bytes":     imageBytes,
		"timestamp":       timestamp.Unix(),
		"event_type":      "published",
	}).Info("Social post published")
}

// LogPostFailed logs a failed publish step.
func (pl *PublishLogger) LogPostFailed(predictionDate, step string, err error) {
	pl.WithFields(logrus.Fields{
		"prediction_date": predictionDate,
		"step":            step,
		"event_type":      "failed",
	}).WithError(err).Error("Social post failed")
}
