package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGoalDistribution(t *testing.T) {
	dist := BuildGoalDistribution([]float64{0.5, 0.5}, []float64{0.25, 0.75})

	require.Len(t, dist.Cells, 4)
	assert.Equal(t, GoalCell{HomeGoals: 0, AwayGoals: 1, Probability: 0.375}, dist.Cells[1])
	assert.Equal(t, GoalCell{HomeGoals: 1, AwayGoals: 0, Probability: 0.125}, dist.Cells[2])
	assert.Equal(t, 0.375, dist.MaxProbability)
	assert.Equal(t, []int{0, 1}, dist.GoalsRange)

	require.Len(t, dist.Marginals, 2)
	assert.InDelta(t, 0.5, dist.Marginals[0].HomeProbability, 1e-12)
	assert.InDelta(t, 0.25, dist.Marginals[0].AwayProbability, 1e-12)
	assert.InDelta(t, 1.0, dist.Marginals[1].HomeScaled, 1e-12)
	assert.InDelta(t, 1.0/3.0, dist.Marginals[0].AwayScaled, 1e-12)
}

func TestBuildGoalDistributionRoundsCells(t *testing.T) {
	dist := BuildGoalDistribution([]float64{0.123456}, []float64{0.5})

	require.Len(t, dist.Cells, 1)
	assert.Equal(t, 0.06173, dist.Cells[0].Probability)
}

func TestBuildGoalDistributionUnevenLengths(t *testing.T) {
	dist := BuildGoalDistribution([]float64{0.2, 0.3, 0.5}, []float64{1})

	assert.Len(t, dist.Cells, 3)
	assert.Equal(t, []int{0, 1, 2}, dist.GoalsRange)
	assert.InDelta(t, 1.0, dist.Marginals[0].AwayProbability, 1e-12)
	assert.Equal(t, 0.0, dist.Marginals[2].AwayProbability)
}

func TestBuildGoalDistributionEmpty(t *testing.T) {
	dist := BuildGoalDistribution(nil, []float64{0.5, 0.5})

	assert.Empty(t, dist.Cells)
	assert.Empty(t, dist.Marginals)
	assert.Empty(t, dist.GoalsRange)
	assert.Equal(t, 0.0, dist.MaxProbability)
}

func mustDate(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func performanceRecords() []PerformanceRecord {
	return []PerformanceRecord{
		{Date: mustDate("2024-01-02"), GamePk: 3, HomeWin: false, HomeWinProbability: 0.4},
		{Date: mustDate("2024-01-01"), GamePk: 1, HomeWin: true, HomeWinProbability: 0.6},
		{Date: mustDate("2024-01-01"), GamePk: 2, HomeWin: false, HomeWinProbability: 0.7},
	}
}

func TestComputePerformance(t *testing.T) {
	points := ComputePerformance(performanceRecords(), 0)

	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-01", points[0].PredictionDate)
	assert.Equal(t, 2, points[0].Games)
	assert.InDelta(t, 0.5, points[0].CumulativeAccuracy, 1e-12)
	assert.InDelta(t, 0.5, points[0].RollingAccuracy, 1e-12)

	assert.Equal(t, "2024-01-02", points[1].PredictionDate)
	assert.Equal(t, 3, points[1].Games)
	assert.InDelta(t, 2.0/3.0, points[1].CumulativeAccuracy, 1e-12)
	assert.InDelta(t, 1.0, points[1].RollingAccuracy, 1e-12)
	assert.InDelta(t, 0.5108256, points[1].RollingLogLoss, 1e-6)
}

func TestComputePerformanceWideWindowMatchesCumulative(t *testing.T) {
	for _, p := range ComputePerformance(performanceRecords(), DefaultRollingWindow) {
		assert.InDelta(t, p.CumulativeAccuracy, p.RollingAccuracy, 1e-12)
		assert.InDelta(t, p.CumulativeLogLoss, p.RollingLogLoss, 1e-12)
	}
}

func TestPerformanceRecordLogLossIsFinite(t *testing.T) {
	r := PerformanceRecord{HomeWin: true, HomeWinProbability: 0}
	assert.InDelta(t, 34.538776, r.LogLoss(), 1e-5)
	assert.False(t, r.Correct())
}

func TestBuildPerformanceChart(t *testing.T) {
	points := ComputePerformance(performanceRecords(), 0)
	c := BuildPerformanceChart(points, DefaultPerformanceSeries())

	require.Len(t, c.Series, 4)
	assert.Equal(t, "2024-01-01", c.FirstDate)
	assert.Equal(t, "2024-01-02", c.LastDate)
	assert.Equal(t, AccuracyAxis, c.Series[0].Axis)
	assert.Equal(t, LinePoint{X: "2024-01-01", Y: 50}, c.Series[0].Points[0])

	acc := c.Axes[AccuracyAxis]
	assert.InDelta(t, 47.5, acc.Min, 1e-9)
	assert.InDelta(t, 105, acc.Max, 1e-9)
	_, ok := c.Axes[LogLossAxis]
	assert.True(t, ok)
}

func TestBuildPerformanceChartEmpty(t *testing.T) {
	c := BuildPerformanceChart(nil, DefaultPerformanceSeries())

	assert.Len(t, c.Series, 4)
	assert.Empty(t, c.Axes)
	assert.Empty(t, c.FirstDate)
}

func TestBuildTeamScatter(t *testing.T) {
	scatter := BuildTeamScatter([]TeamStrength{
		{Name: "Toronto Maple Leafs", DefenceMedian: 0.2, OffenceMedian: -0.3},
		{Name: "Boston Bruins", DefenceMedian: -0.1, OffenceMedian: 0.05},
	})

	require.Len(t, scatter.Teams, 2)
	assert.Equal(t, "Boston Bruins", scatter.Teams[0].Name)
	assert.InDelta(t, -0.12, scatter.XExtent.Min, 1e-12)
	assert.InDelta(t, 0.24, scatter.XExtent.Max, 1e-12)
	assert.InDelta(t, -0.36, scatter.YExtent.Min, 1e-12)
	assert.InDelta(t, 0.06, scatter.YExtent.Max, 1e-12)
}
