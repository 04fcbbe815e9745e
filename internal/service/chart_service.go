package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/cache"
	"github.com/yourusername/bayes-bet/internal/chart"
	"github.com/yourusername/bayes-bet/internal/metrics"
	"github.com/yourusername/bayes-bet/internal/models"
	"github.com/yourusername/bayes-bet/internal/repository"
	"github.com/yourusername/bayes-bet/internal/teams"
)

// CardDateLayout is the long date format used on the social card.
const CardDateLayout = "January 02, 2006"

// defaultPerformanceSpan is how far back the performance chart reaches
// when no start date is given.
const defaultPerformanceSpan = 365 * 24 * time.Hour

// DefaultWindow asks ModelPerformance for the configured rolling window.
// A window of 0 covers only the current prediction date.
const DefaultWindow = -1

// API versions. v1 folds shootout wins into overtime; v2 keeps them apart.
const (
	VersionV1 = "v1"
	VersionV2 = "v2"
)

// ChartOptions tunes the chart service.
type ChartOptions struct {
	League string
	// PredictionDayOffset is subtracted from the current time before
	// taking the date, so games finishing after midnight stay on the
	// previous prediction date.
	PredictionDayOffset time.Duration
	RollingWindow       int
	// MergeShootout controls the social card segments.
	MergeShootout bool
}

// ChartService turns stored prediction runs into chart payloads.
type ChartService struct {
	runs   repository.PredictionRunRepository
	teams  *teams.Registry
	cache  *cache.ChartCache
	opts   ChartOptions
	now    func() time.Time
	logger *logrus.Entry
}

// NewChartService creates a chart service. A nil registry uses the
// embedded team metadata.
func NewChartService(
	runs repository.PredictionRunRepository,
	registry *teams.Registry,
	chartCache *cache.ChartCache,
	opts ChartOptions,
	logger *logrus.Logger,
) *ChartService {
	if registry == nil {
		registry = teams.Default()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.RollingWindow <= 0 {
		opts.RollingWindow = chart.DefaultRollingWindow
	}

	return &ChartService{
		runs:   runs,
		teams:  registry,
		cache:  chartCache,
		opts:   opts,
		now:    time.Now,
		logger: logger.WithField("component", "chart_service"),
	}
}

// PredictionDay is the calendar date of the run considered current at t.
func (s *ChartService) PredictionDay(t time.Time) time.Time {
	shifted := t.UTC().Add(-s.opts.PredictionDayOffset)
	y, m, d := shifted.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a prediction date. The empty string is valid and means
// the current prediction day.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", models.ErrInvalidDate, date)
	}
	return d, nil
}

// resolveRun loads the run for date, or the latest run on or before the
// current prediction day when date is empty.
func (s *ChartService) resolveRun(ctx context.Context, date string) (*models.PredictionRun, error) {
	if date == "" {
		return s.runs.GetLatestOnOrBefore(ctx, s.opts.League, s.PredictionDay(s.now()))
	}
	d, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.runs.GetByDate(ctx, s.opts.League, d)
}

// cached builds a payload through the chart cache. Requests without a date
// are keyed on the current prediction day with an empty Date so any sync
// invalidates them.
func (s *ChartService) cached(kind, date, extra string, build func() (interface{}, error)) (interface{}, error) {
	timed := func() (interface{}, error) {
		start := time.Now()
		value, err := build()
		if err == nil {
			metrics.RecordChartBuild(kind, time.Since(start))
		}
		return value, err
	}
	if s.cache == nil {
		return timed()
	}

	key := cache.Key{Kind: kind, League: s.opts.League, Date: date, Extra: extra}
	if date == "" {
		key.Extra = "latest:" + s.PredictionDay(s.now()).Format(models.DateLayout) + ":" + extra
	}
	return s.cache.GetOrBuild(key, timed)
}

func (s *ChartService) summary(run *models.PredictionRun, g *models.GamePrediction) GameSummary {
	home := s.teams.Lookup(g.HomeTeam)
	away := s.teams.Lookup(g.AwayTeam)
	return GameSummary{
		GamePk:   g.GamePk,
		GameDate: run.PredictionDate,
		HomeTeam: g.HomeTeam,
		HomeAbb:  home.Abbreviation,
		AwayTeam: g.AwayTeam,
		AwayAbb:  away.Abbreviation,
		Score:    g.Score,
	}
}

func (s *ChartService) outcome(g *models.GamePrediction, mergeShootout bool) (OutcomePredictions, chart.GameOutcome) {
	home, away := g.Segments(mergeShootout)
	out := chart.BuildGameOutcome(chart.GameOutcomeInput{
		GamePk:       g.GamePk,
		Home:         s.teams.Lookup(g.HomeTeam),
		Away:         s.teams.Lookup(g.AwayTeam),
		HomeSegments: home,
		AwaySegments: away,
		Score:        g.Score,
	})
	return OutcomePredictions{Home: home, Away: away}, out
}

// Games lists the games of the run for date.
func (s *ChartService) Games(ctx context.Context, date string) (*GamesPayload, error) {
	value, err := s.cached("games", date, "", func() (interface{}, error) {
		run, err := s.resolveRun(ctx, date)
		if err != nil {
			return nil, err
		}
		payload := &GamesPayload{PredictionDate: run.PredictionDate, Data: make([]GameSummary, 0, len(run.Games))}
		for i := range run.Games {
			payload.Data = append(payload.Data, s.summary(run, &run.Games[i]))
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*GamesPayload), nil
}

// GameOutcome builds the stacked win probability chart for one game.
func (s *ChartService) GameOutcome(ctx context.Context, version string, gamePk int64, date string) (*GameOutcomePayload, error) {
	mergeShootout := version != VersionV2
	extra := version + ":" + strconv.FormatInt(gamePk, 10)

	value, err := s.cached("gameoutcome", date, extra, func() (interface{}, error) {
		run, err := s.resolveRun(ctx, date)
		if err != nil {
			return nil, err
		}
		game, err := run.FindGame(gamePk)
		if err != nil {
			return nil, err
		}
		predictions, out := s.outcome(game, mergeShootout)
		return &GameOutcomePayload{
			PredictionDate: run.PredictionDate,
			Predictions:    predictions,
			Score:          game.Score,
			Chart:          out,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*GameOutcomePayload), nil
}

// GoalDistribution builds the joint goal heatmap for one game.
func (s *ChartService) GoalDistribution(ctx context.Context, gamePk int64, date string) (*GoalDistributionPayload, error) {
	value, err := s.cached("goaldist", date, strconv.FormatInt(gamePk, 10), func() (interface{}, error) {
		run, err := s.resolveRun(ctx, date)
		if err != nil {
			return nil, err
		}
		game, err := run.FindGame(gamePk)
		if err != nil {
			return nil, err
		}
		return &GoalDistributionPayload{
			PredictionDate:   run.PredictionDate,
			GamePk:           gamePk,
			GoalDistribution: chart.BuildGoalDistribution(game.ScoreProbabilities.Home, game.ScoreProbabilities.Away),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*GoalDistributionPayload), nil
}

// Teams builds the offence/defence scatter from the run's model variables.
func (s *ChartService) Teams(ctx context.Context, date string) (*TeamsPayload, error) {
	value, err := s.cached("teams", date, "", func() (interface{}, error) {
		run, err := s.resolveRun(ctx, date)
		if err != nil {
			return nil, err
		}
		strengths := make([]chart.TeamStrength, 0, len(run.ModelVariables.Teams))
		for name, vars := range run.ModelVariables.Teams {
			info := s.teams.Lookup(name)
			strength := chart.TeamStrength{Name: name, Abbreviation: info.Abbreviation, Colors: info.Colors}
			strength.OffenceMedian, strength.OffenceLow, strength.OffenceHigh = vars.Offence()
			strength.DefenceMedian, strength.DefenceLow, strength.DefenceHigh = vars.Defence()
			strengths = append(strengths, strength)
		}
		return &TeamsPayload{PredictionDate: run.PredictionDate, TeamScatter: chart.BuildTeamScatter(strengths)}, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*TeamsPayload), nil
}

// ModelPerformance scores every finished game between start and end.
// Empty bounds default to the year up to the current prediction day and
// a negative window uses the configured rolling window.
func (s *ChartService) ModelPerformance(ctx context.Context, start, end string, window int) (*PerformancePayload, error) {
	endDate := s.PredictionDay(s.now())
	if end != "" {
		d, err := ParseDate(end)
		if err != nil {
			return nil, err
		}
		endDate = d
	}
	startDate := endDate.Add(-defaultPerformanceSpan)
	if start != "" {
		d, err := ParseDate(start)
		if err != nil {
			return nil, err
		}
		startDate = d
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: start %s is after end %s", models.ErrInvalidDate,
			startDate.Format(models.DateLayout), endDate.Format(models.DateLayout))
	}
	if window < 0 {
		window = s.opts.RollingWindow
	}

	startKey, endKey := startDate.Format(models.DateLayout), endDate.Format(models.DateLayout)
	// multi-date payloads use an empty Date so every sync invalidates them
	extra := fmt.Sprintf("%s:%s:%d", startKey, endKey, window)
	key := cache.Key{Kind: "performance", League: s.opts.League, Extra: extra}

	build := func() (interface{}, error) {
		begin := time.Now()
		runs, err := s.runs.ListBetween(ctx, s.opts.League, startDate, endDate)
		if err != nil {
			return nil, err
		}
		var records []chart.PerformanceRecord
		for _, run := range runs {
			date, err := run.Date()
			if err != nil {
				s.logger.WithError(err).Warn("Skipping run with invalid date")
				continue
			}
			for i := range run.Games {
				if record, ok := run.Games[i].PerformanceRecord(date); ok {
					records = append(records, record)
				}
			}
		}
		points := chart.ComputePerformance(records, window)
		payload := &PerformancePayload{
			Start:            startKey,
			End:              endKey,
			Window:           window,
			PerformanceChart: chart.BuildPerformanceChart(points, chart.DefaultPerformanceSeries()),
		}
		metrics.RecordChartBuild("performance", time.Since(begin))
		return payload, nil
	}

	var (
		value interface{}
		err   error
	)
	if s.cache != nil {
		value, err = s.cache.GetOrBuild(key, build)
	} else {
		value, err = build()
	}
	if err != nil {
		return nil, err
	}
	return value.(*PerformancePayload), nil
}

// SocialCard builds the daily prediction card.
func (s *ChartService) SocialCard(ctx context.Context, date string) (*SocialCard, error) {
	value, err := s.cached("socialpreds", date, "", func() (interface{}, error) {
		run, err := s.resolveRun(ctx, date)
		if err != nil {
			return nil, err
		}
		d, err := run.Date()
		if err != nil {
			return nil, err
		}
		card := &SocialCard{
			PredictionDate: run.PredictionDate,
			Title:          d.Format(CardDateLayout),
			Games:          make([]SocialGame, 0, len(run.Games)),
		}
		for i := range run.Games {
			g := &run.Games[i]
			predictions, out := s.outcome(g, s.opts.MergeShootout)
			card.Games = append(card.Games, SocialGame{
				Shaded:      i%2 == 0,
				GameSummary: s.summary(run, g),
				HomeColors:  out.Home.Team.Colors,
				AwayColors:  out.Away.Team.Colors,
				Predictions: predictions,
				Chart:       out,
			})
		}
		return card, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*SocialCard), nil
}

// Readiness reports whether the run for the prediction day at now has been
// published with at least one game. It is never cached.
func (s *ChartService) Readiness(ctx context.Context, now time.Time) (models.Readiness, error) {
	day := s.PredictionDay(now)
	readiness := models.Readiness{PredictionDate: day.Format(models.DateLayout)}

	run, err := s.runs.GetLatestOnOrBefore(ctx, s.opts.League, day)
	if err != nil {
		if isNotFound(err) {
			return readiness, nil
		}
		return readiness, err
	}

	readiness.PredictionDate = run.PredictionDate
	readiness.ReadyToPost = run.PredictionDate == day.Format(models.DateLayout) && len(run.Games) > 0
	return readiness, nil
}
