package repository

import (
	"context"
	"time"

	"github.com/yourusername/bayes-bet/internal/chart"
	"github.com/yourusername/bayes-bet/internal/models"
)

// PredictionRunRepository defines the interface for prediction run storage.
// Dates are calendar days; the time of day is ignored.
type PredictionRunRepository interface {
	Upsert(ctx context.Context, run *models.PredictionRun) error
	GetByDate(ctx context.Context, league string, date time.Time) (*models.PredictionRun, error)
	GetLatestOnOrBefore(ctx context.Context, league string, date time.Time) (*models.PredictionRun, error)
	ListBetween(ctx context.Context, league string, start, end time.Time) ([]*models.PredictionRun, error)
	UpdateScores(ctx context.Context, league string, date time.Time, scores map[int64]chart.Score) error
}
