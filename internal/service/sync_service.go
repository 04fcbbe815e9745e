package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/cache"
	"github.com/yourusername/bayes-bet/internal/chart"
	"github.com/yourusername/bayes-bet/internal/datasource"
	"github.com/yourusername/bayes-bet/internal/logger"
	"github.com/yourusername/bayes-bet/internal/metrics"
	"github.com/yourusername/bayes-bet/internal/models"
	"github.com/yourusername/bayes-bet/internal/repository"
)

// Sync outcomes, also used as the metrics label.
const (
	SyncMissing   = "missing"
	SyncUnchanged = "unchanged"
	SyncScores    = "scores"
	SyncStored    = "stored"
	SyncFailed    = "failed"
)

// ScoreUpdate is pushed to live subscribers when a game gets a final
// score.
type ScoreUpdate struct {
	ID             string       `json:"id"`
	League         string       `json:"league"`
	PredictionDate string       `json:"prediction_date"`
	GamePk         int64        `json:"game_pk"`
	HomeTeam       string       `json:"home_team"`
	AwayTeam       string       `json:"away_team"`
	Score          chart.Score  `json:"score"`
	Result         chart.Result `json:"result"`
}

// ScoreBroadcaster delivers score updates to live subscribers.
type ScoreBroadcaster interface {
	Broadcast(update ScoreUpdate)
}

// SyncResult describes one sync of a prediction date.
type SyncResult struct {
	RunID          string
	PredictionDate string
	Outcome        string
	Games          int
	ScoreUpdates   []ScoreUpdate
	Invalidated    int
	Duration       time.Duration
}

// SyncService copies prediction runs from the model backend into the
// repository.
type SyncService struct {
	source      datasource.PredictionSource
	runs        repository.PredictionRunRepository
	cache       *cache.ChartCache
	broadcaster ScoreBroadcaster
	league      string
	offset      time.Duration
	now         func() time.Time
	logger      *logger.SyncLogger
}

// NewSyncService creates a sync service. cache and broadcaster may be nil.
func NewSyncService(
	source datasource.PredictionSource,
	runs repository.PredictionRunRepository,
	chartCache *cache.ChartCache,
	broadcaster ScoreBroadcaster,
	league string,
	predictionDayOffset time.Duration,
	log *logrus.Logger,
) *SyncService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SyncService{
		source:      source,
		runs:        runs,
		cache:       chartCache,
		broadcaster: broadcaster,
		league:      league,
		offset:      predictionDayOffset,
		now:         time.Now,
		logger:      logger.NewSyncLogger(log),
	}
}

// SyncRecent syncs the current prediction day and the day before it, so
// late finishing games pick up their final scores.
func (s *SyncService) SyncRecent(ctx context.Context) error {
	today := s.predictionDay()

	var firstErr error
	for _, date := range []time.Time{today.AddDate(0, 0, -1), today} {
		if _, err := s.Sync(ctx, date); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Sync fetches the run for date and stores it. Runs whose predictions are
// unchanged only get their scores rewritten. A date the backend has no run
// for is not an error.
func (s *SyncService) Sync(ctx context.Context, date time.Time) (SyncResult, error) {
	start := time.Now()
	result := SyncResult{
		RunID:          uuid.New().String(),
		PredictionDate: date.Format(models.DateLayout),
	}
	s.logger.LogSyncStarted(result.RunID, s.league, result.PredictionDate)

	result, err := s.sync(ctx, date, result)
	result.Duration = time.Since(start)
	metrics.RecordSync(result.Outcome, result.Duration)
	if err != nil {
		s.logger.LogSyncFailed(result.RunID, s.league, result.PredictionDate, err)
		return result, err
	}

	s.logger.LogRunStored(s.league, result.PredictionDate, result.Outcome, result.Games, len(result.ScoreUpdates), result.Duration.Milliseconds())
	return result, nil
}

func (s *SyncService) sync(ctx context.Context, date time.Time, result SyncResult) (SyncResult, error) {
	fetched, err := s.source.FetchRun(ctx, s.league, date)
	if err != nil {
		if isSourceNotFound(err) {
			result.Outcome = SyncMissing
			return result, nil
		}
		result.Outcome = SyncFailed
		return result, fmt.Errorf("failed to fetch run from %s: %w", s.source.Name(), err)
	}
	result.Games = len(fetched.Games)

	stored, err := s.runs.GetByDate(ctx, s.league, date)
	if err != nil && !isNotFound(err) {
		result.Outcome = SyncFailed
		return result, fmt.Errorf("failed to load stored run: %w", err)
	}
	if isNotFound(err) {
		stored = nil
	}

	changed := fetched.ScoreChanges(stored)
	switch {
	case stored != nil && samePredictions(stored, fetched) && len(changed) == 0:
		result.Outcome = SyncUnchanged
		return result, nil
	case stored != nil && samePredictions(stored, fetched):
		scores := make(map[int64]chart.Score, len(changed))
		for _, g := range changed {
			scores[g.GamePk] = g.Score
		}
		if err := s.runs.UpdateScores(ctx, s.league, date, scores); err != nil {
			result.Outcome = SyncFailed
			return result, fmt.Errorf("failed to update scores: %w", err)
		}
		result.Outcome = SyncScores
	default:
		if err := s.runs.Upsert(ctx, fetched); err != nil {
			result.Outcome = SyncFailed
			return result, fmt.Errorf("failed to store run: %w", err)
		}
		result.Outcome = SyncStored
	}

	if s.cache != nil {
		result.Invalidated = s.cache.Invalidate(s.league, result.PredictionDate)
	}
	if !date.Before(s.predictionDay()) {
		metrics.UpdateLatestPrediction(date)
	}

	for _, g := range changed {
		update := ScoreUpdate{
			ID:             uuid.New().String(),
			League:         s.league,
			PredictionDate: result.PredictionDate,
			GamePk:         g.GamePk,
			HomeTeam:       g.HomeTeam,
			AwayTeam:       g.AwayTeam,
			Score:          g.Score,
		}
		update.Result = chart.Classify(g.HomeWinProbability() >= chart.FavoredThreshold, g.Score)
		result.ScoreUpdates = append(result.ScoreUpdates, update)
		s.logger.LogScoreChange(result.PredictionDate, g.GamePk, g.Score.Home.String(), g.Score.Away.String())
		if s.broadcaster != nil {
			s.broadcaster.Broadcast(update)
		}
	}
	metrics.RecordScoreUpdates(len(changed))
	return result, nil
}

func (s *SyncService) predictionDay() time.Time {
	shifted := s.now().UTC().Add(-s.offset)
	y, m, d := shifted.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// samePredictions reports whether two runs carry the same games and
// model output, ignoring scores.
func samePredictions(a, b *models.PredictionRun) bool {
	if len(a.Games) != len(b.Games) {
		return false
	}
	for i := range a.Games {
		x, y := a.Games[i], b.Games[i]
		if x.GamePk != y.GamePk || x.HomeTeam != y.HomeTeam || x.AwayTeam != y.AwayTeam {
			return false
		}
		if x.WinPercentages != y.WinPercentages {
			return false
		}
		if !equalFloats(x.ScoreProbabilities.Home, y.ScoreProbabilities.Home) ||
			!equalFloats(x.ScoreProbabilities.Away, y.ScoreProbabilities.Away) {
			return false
		}
	}
	if len(a.ModelVariables.Teams) != len(b.ModelVariables.Teams) {
		return false
	}
	for name, va := range a.ModelVariables.Teams {
		vb, ok := b.ModelVariables.Teams[name]
		if !ok || !equalFloats(va.O, vb.O) || !equalFloats(va.D, vb.D) {
			return false
		}
	}
	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
