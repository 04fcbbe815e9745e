package chart

import "github.com/shopspring/decimal"

// goalPrecision matches the precision the model backend stores scores at.
const goalPrecision = 5

// GoalCell is one scoreline in the heatmap.
type GoalCell struct {
	HomeGoals   int     `json:"home_goals"`
	AwayGoals   int     `json:"away_goals"`
	Probability float64 `json:"probability"`
}

// GoalMarginal is one bar of the histograms along the heatmap edges.
type GoalMarginal struct {
	Goals           int     `json:"goals"`
	HomeProbability float64 `json:"home_probability"`
	AwayProbability float64 `json:"away_probability"`
	HomeScaled      float64 `json:"home_scaled"`
	AwayScaled      float64 `json:"away_scaled"`
}

// GoalDistribution is the payload behind the goal distribution heatmap.
type GoalDistribution struct {
	Cells          []GoalCell     `json:"cells"`
	Marginals      []GoalMarginal `json:"marginals"`
	GoalsRange     []int          `json:"goals_range"`
	MaxProbability float64        `json:"max_probability"`
}

// BuildGoalDistribution crosses independent home and away goal
// probabilities into a joint distribution.
func BuildGoalDistribution(home, away []float64) GoalDistribution {
	n := len(home)
	if len(away) > n {
		n = len(away)
	}
	if len(home) == 0 || len(away) == 0 {
		n = 0
	}

	dist := GoalDistribution{
		Cells:      make([]GoalCell, 0, len(home)*len(away)),
		Marginals:  make([]GoalMarginal, n),
		GoalsRange: make([]int, n),
	}
	if n == 0 {
		return dist
	}
	for i := range dist.Marginals {
		dist.Marginals[i].Goals = i
		dist.GoalsRange[i] = i
	}

	for hg, hp := range home {
		for ag, ap := range away {
			p := roundTo(hp*ap, goalPrecision)
			dist.Cells = append(dist.Cells, GoalCell{HomeGoals: hg, AwayGoals: ag, Probability: p})
			dist.Marginals[hg].HomeProbability += p
			dist.Marginals[ag].AwayProbability += p
			if p > dist.MaxProbability {
				dist.MaxProbability = p
			}
		}
	}

	maxHome, maxAway := 0.0, 0.0
	for _, m := range dist.Marginals {
		if m.HomeProbability > maxHome {
			maxHome = m.HomeProbability
		}
		if m.AwayProbability > maxAway {
			maxAway = m.AwayProbability
		}
	}
	for i := range dist.Marginals {
		if maxHome > 0 {
			dist.Marginals[i].HomeScaled = dist.Marginals[i].HomeProbability / maxHome
		}
		if maxAway > 0 {
			dist.Marginals[i].AwayScaled = dist.Marginals[i].AwayProbability / maxAway
		}
	}
	return dist
}

func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
