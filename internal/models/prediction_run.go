package models

import (
	"fmt"
	"time"

	"github.com/yourusername/bayes-bet/internal/chart"
)

// DateLayout is the format of prediction dates in URLs, storage and the
// model backend.
const DateLayout = chart.DateLayout

// PredictionRun is the output of one nightly model run: predictions for
// every game on the date plus the fitted team variables.
type PredictionRun struct {
	League         string           `db:"league" json:"league" validate:"required"`
	PredictionDate string           `db:"prediction_date" json:"prediction_date" validate:"required,datetime=2006-01-02"`
	Games          []GamePrediction `db:"game_predictions" json:"game_predictions" validate:"dive"`
	ModelVariables ModelVariables   `db:"model_variables" json:"model_variables"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// GamePrediction is the model output for a single game.
type GamePrediction struct {
	GamePk   int64  `json:"game_pk" validate:"required,gt=0"`
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required"`
	// WinPercentages holds home REG/OT/SO then away REG/OT/SO.
	WinPercentages     [6]float64         `json:"win_percentages"`
	ScoreProbabilities ScoreProbabilities `json:"score_probabilities"`
	Score              chart.Score        `json:"score"`
}

// ScoreProbabilities are the per-team goal count distributions.
type ScoreProbabilities struct {
	Home []float64 `json:"home"`
	Away []float64 `json:"away"`
}

// ModelVariables holds the posterior summaries fitted by the run.
type ModelVariables struct {
	Teams map[string]TeamVariables `json:"teams"`
}

// TeamVariables are offence (O) and defence (D) posteriors, each stored as
// [median, hpd_low, hpd_high]. Older runs carry only the median.
type TeamVariables struct {
	O []float64 `json:"o"`
	D []float64 `json:"d"`
}

// Date parses the prediction date.
func (r *PredictionRun) Date() (time.Time, error) {
	d, err := time.Parse(DateLayout, r.PredictionDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, r.PredictionDate)
	}
	return d, nil
}

// FindGame returns the prediction for gamePk.
func (r *PredictionRun) FindGame(gamePk int64) (*GamePrediction, error) {
	for i := range r.Games {
		if r.Games[i].GamePk == gamePk {
			return &r.Games[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d on %s", ErrGameNotFound, gamePk, r.PredictionDate)
}

// HomeWinProbability sums the home regulation, overtime and shootout
// win probabilities.
func (g *GamePrediction) HomeWinProbability() float64 {
	return g.WinPercentages[0] + g.WinPercentages[1] + g.WinPercentages[2]
}

// Segments splits the win percentages into chart segments.
func (g *GamePrediction) Segments(mergeShootout bool) (home, away []chart.Segment) {
	return chart.SegmentsFromWinPercentages(g.WinPercentages, mergeShootout)
}

// PerformanceRecord scores a finished game against its prediction. ok is
// false while the score is pending.
func (g *GamePrediction) PerformanceRecord(date time.Time) (chart.PerformanceRecord, bool) {
	home, homeKnown := g.Score.Home.Value()
	away, awayKnown := g.Score.Away.Value()
	if !homeKnown || !awayKnown {
		return chart.PerformanceRecord{}, false
	}
	return chart.PerformanceRecord{
		Date:               date,
		GamePk:             g.GamePk,
		HomeWin:            home > away,
		HomeWinProbability: g.HomeWinProbability(),
	}, true
}

// Offence returns the offence median and HPD interval.
func (v TeamVariables) Offence() (median, low, high float64) {
	return summarize(v.O)
}

// Defence returns the defence median and HPD interval.
func (v TeamVariables) Defence() (median, low, high float64) {
	return summarize(v.D)
}

// summarize falls back to the median for runs that did not store the
// HPD bounds.
func summarize(values []float64) (median, low, high float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	if len(values) < 3 {
		return values[0], values[0], values[0]
	}
	return values[0], values[1], values[2]
}

// ScoreChanges lists the games of r with a final score that previous did
// not have. A nil previous run reports every final score.
func (r *PredictionRun) ScoreChanges(previous *PredictionRun) []GamePrediction {
	var changed []GamePrediction
	for _, g := range r.Games {
		if !g.Score.Final() {
			continue
		}
		if previous != nil {
			old, err := previous.FindGame(g.GamePk)
			if err == nil && old.Score == g.Score {
				continue
			}
		}
		changed = append(changed, g)
	}
	return changed
}

// Readiness tells the social publisher whether today's run can be posted.
type Readiness struct {
	ReadyToPost    bool   `json:"ready_to_post"`
	PredictionDate string `json:"prediction_date"`
}
