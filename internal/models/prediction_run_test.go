package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bayes-bet/internal/chart"
)

const runJSON = `{
	"league": "nhl",
	"prediction_date": "2024-01-15",
	"game_predictions": [
		{
			"game_pk": 2023020700,
			"home_team": "Boston Bruins",
			"away_team": "Montréal Canadiens",
			"win_percentages": [0.45, 0.05, 0.02, 0.40, 0.05, 0.03],
			"score_probabilities": {"home": [0.2, 0.8], "away": [0.5, 0.5]},
			"score": {"home": "4", "away": "2"}
		},
		{
			"game_pk": 2023020701,
			"home_team": "Toronto Maple Leafs",
			"away_team": "Ottawa Senators",
			"win_percentages": [0.3, 0.05, 0.05, 0.5, 0.05, 0.05],
			"score": {"home": "-", "away": "-"}
		}
	],
	"model_variables": {"teams": {"Boston Bruins": {"o": [0.1, 0.05, 0.15], "d": [-0.2]}}}
}`

func loadRun(t *testing.T) *PredictionRun {
	t.Helper()
	var run PredictionRun
	require.NoError(t, json.Unmarshal([]byte(runJSON), &run))
	return &run
}

func TestPredictionRunDecode(t *testing.T) {
	run := loadRun(t)

	require.Len(t, run.Games, 2)
	assert.Equal(t, "nhl", run.League)
	assert.True(t, run.Games[0].Score.Final())
	assert.False(t, run.Games[1].Score.Final())
	assert.InDelta(t, 0.52, run.Games[0].HomeWinProbability(), 1e-12)

	d, err := run.Date()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestPredictionRunInvalidDate(t *testing.T) {
	run := &PredictionRun{PredictionDate: "15/01/2024"}
	_, err := run.Date()
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestFindGame(t *testing.T) {
	run := loadRun(t)

	g, err := run.FindGame(2023020701)
	require.NoError(t, err)
	assert.Equal(t, "Toronto Maple Leafs", g.HomeTeam)

	_, err = run.FindGame(1)
	assert.True(t, errors.Is(err, ErrGameNotFound))
}

func TestPerformanceRecord(t *testing.T) {
	run := loadRun(t)
	date, _ := run.Date()

	rec, ok := run.Games[0].PerformanceRecord(date)
	require.True(t, ok)
	assert.True(t, rec.HomeWin)
	assert.True(t, rec.Correct())

	_, ok = run.Games[1].PerformanceRecord(date)
	assert.False(t, ok)
}

func TestTeamVariables(t *testing.T) {
	run := loadRun(t)
	vars := run.ModelVariables.Teams["Boston Bruins"]

	median, low, high := vars.Offence()
	assert.Equal(t, []float64{0.1, 0.05, 0.15}, []float64{median, low, high})

	median, low, high = vars.Defence()
	assert.Equal(t, []float64{-0.2, -0.2, -0.2}, []float64{median, low, high})

	median, _, _ = TeamVariables{}.Offence()
	assert.Equal(t, 0.0, median)
}

func TestScoreChanges(t *testing.T) {
	run := loadRun(t)

	changed := run.ScoreChanges(nil)
	require.Len(t, changed, 1)
	assert.Equal(t, int64(2023020700), changed[0].GamePk)

	assert.Empty(t, run.ScoreChanges(loadRun(t)))

	previous := loadRun(t)
	previous.Games[0].Score = chart.Score{Home: chart.PendingGoals(), Away: chart.PendingGoals()}
	changed = run.ScoreChanges(previous)
	require.Len(t, changed, 1)
}
