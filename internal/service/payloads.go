package service

import (
	"github.com/yourusername/bayes-bet/internal/chart"
)

// GameSummary is one row of the games listing.
type GameSummary struct {
	GamePk   int64       `json:"game_pk"`
	GameDate string      `json:"game_date"`
	HomeTeam string      `json:"home_team"`
	HomeAbb  string      `json:"home_abb"`
	AwayTeam string      `json:"away_team"`
	AwayAbb  string      `json:"away_abb"`
	Score    chart.Score `json:"score"`
}

// GamesPayload lists the games of one prediction run.
type GamesPayload struct {
	PredictionDate string        `json:"prediction_date"`
	Data           []GameSummary `json:"data"`
}

// OutcomePredictions are the raw win segments before stacking.
type OutcomePredictions struct {
	Home []chart.Segment `json:"home"`
	Away []chart.Segment `json:"away"`
}

// GameOutcomePayload carries the raw predictions, the score and the
// stacked chart built from them.
type GameOutcomePayload struct {
	PredictionDate string             `json:"prediction_date"`
	Predictions    OutcomePredictions `json:"predictions"`
	Score          chart.Score        `json:"score"`
	Chart          chart.GameOutcome  `json:"chart"`
}

// GoalDistributionPayload is the goal heatmap for one game.
type GoalDistributionPayload struct {
	PredictionDate string `json:"prediction_date"`
	GamePk         int64  `json:"game_pk"`
	chart.GoalDistribution
}

// TeamsPayload is the team strength scatter for one run.
type TeamsPayload struct {
	PredictionDate string `json:"prediction_date"`
	chart.TeamScatter
}

// PerformancePayload is the model performance chart over a date range.
type PerformancePayload struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Window int    `json:"window"`
	chart.PerformanceChart
}

// SocialGame is one game on the social card. Shaded alternates row
// backgrounds.
type SocialGame struct {
	Shaded bool `json:"shaded"`
	GameSummary
	HomeColors  []string           `json:"home_colors"`
	AwayColors  []string           `json:"away_colors"`
	Predictions OutcomePredictions `json:"predictions"`
	Chart       chart.GameOutcome  `json:"chart"`
}

// SocialCard is the daily prediction card that gets screenshotted.
type SocialCard struct {
	PredictionDate string       `json:"prediction_date"`
	Title          string       `json:"title"`
	Games          []SocialGame `json:"games"`
}
