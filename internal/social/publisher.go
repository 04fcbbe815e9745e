// Package social publishes the daily prediction card.
package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/logger"
	"github.com/yourusername/bayes-bet/internal/metrics"
	"github.com/yourusername/bayes-bet/internal/models"
)

// Post outcomes, also used as the metrics label.
const (
	OutcomeSkipped   = "skipped"
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
)

const captionDateLayout = "January 02, 2006"

// Options configures the publisher.
type Options struct {
	PageURL  string
	Selector string
	SiteURL  string
}

// Publisher screenshots the prediction card and posts it once the day's
// run is ready.
type Publisher struct {
	readiness ReadinessChecker
	shots     Screenshotter
	poster    Poster
	opts      Options
	now       func() time.Time
	logger    *logger.PublishLogger
}

// NewPublisher creates a publisher.
func NewPublisher(readiness ReadinessChecker, shots Screenshotter, poster Poster, opts Options, log *logrus.Logger) *Publisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Selector == "" {
		opts.Selector = "#screenshot"
	}
	return &Publisher{
		readiness: readiness,
		shots:     shots,
		poster:    poster,
		opts:      opts,
		now:       time.Now,
		logger:    logger.NewPublishLogger(log),
	}
}

// Caption is the post text for a prediction date, linking to the date's
// page when siteURL is set.
func Caption(predictionDate, siteURL string) string {
	label := predictionDate
	if d, err := time.Parse(models.DateLayout, predictionDate); err == nil {
		label = d.Format(captionDateLayout)
	}
	caption := "BayesBet NHL game predictions for " + label
	if siteURL == "" {
		return caption
	}
	return fmt.Sprintf("%s: %s/%s/", caption, strings.TrimRight(siteURL, "/"), predictionDate)
}

// Publish posts the card when the current run is ready. Not being ready
// is not an error.
func (p *Publisher) Publish(ctx context.Context) error {
	readiness, err := p.readiness.Readiness(ctx, p.now())
	if err != nil {
		p.fail("", "readiness", err)
		return fmt.Errorf("readiness check failed: %w", err)
	}
	date := readiness.PredictionDate
	if !readiness.ReadyToPost {
		p.logger.LogPostSkipped(date, "prediction run not ready")
		metrics.RecordSocialPost(OutcomeSkipped)
		return nil
	}

	image, err := p.shots.Capture(ctx, p.opts.PageURL, p.opts.Selector)
	if err != nil {
		p.fail(date, "screenshot", err)
		return err
	}
	if len(image) == 0 {
		err := fmt.Errorf("empty screenshot of %s", p.opts.PageURL)
		p.fail(date, "screenshot", err)
		return err
	}

	messageID, err := p.poster.PostPhoto(ctx, image, Caption(date, p.opts.SiteURL))
	if err != nil {
		p.fail(date, "post", err)
		return err
	}

	p.logger.LogPostPublished(date, p.poster.ChatID(), messageID, len(image), p.now())
	metrics.RecordSocialPost(OutcomePublished)
	return nil
}

func (p *Publisher) fail(date, step string, err error) {
	p.logger.LogPostFailed(date, step, err)
	metrics.RecordSocialPost(OutcomeFailed)
}
