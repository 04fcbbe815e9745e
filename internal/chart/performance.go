package chart

import (
	"math"
	"sort"
	"time"
)

// DefaultRollingWindow is the number of prior prediction dates included in
// the rolling metrics.
const DefaultRollingWindow = 14

// DateLayout is the wire format for prediction dates.
const DateLayout = "2006-01-02"

const probabilityEpsilon = 1e-15

// PerformanceRecord is one finished game scored against its prediction.
type PerformanceRecord struct {
	Date               time.Time
	GamePk             int64
	HomeWin            bool
	HomeWinProbability float64
}

// Correct reports whether the favored side won.
func (r PerformanceRecord) Correct() bool {
	return r.HomeWin == (r.HomeWinProbability >= FavoredThreshold)
}

// LogLoss is the binary cross-entropy of the prediction.
func (r PerformanceRecord) LogLoss() float64 {
	p := math.Min(math.Max(r.HomeWinProbability, probabilityEpsilon), 1-probabilityEpsilon)
	if r.HomeWin {
		return -math.Log(p)
	}
	return -math.Log(1 - p)
}

// PerformancePoint holds the model metrics as of one prediction date.
type PerformancePoint struct {
	Date               time.Time `json:"-"`
	PredictionDate     string    `json:"prediction_date"`
	Games              int       `json:"games"`
	CumulativeAccuracy float64   `json:"cumulative_accuracy"`
	RollingAccuracy    float64   `json:"rolling_accuracy"`
	CumulativeLogLoss  float64   `json:"cumulative_log_loss"`
	RollingLogLoss     float64   `json:"rolling_log_loss"`
}

type dateTally struct {
	date    time.Time
	games   int
	correct int
	logLoss float64
}

// ComputePerformance returns cumulative and rolling accuracy and log loss
// for every distinct prediction date, oldest first. The rolling window
// covers the current date and up to window dates before it.
func ComputePerformance(records []PerformanceRecord, window int) []PerformancePoint {
	if window < 0 {
		window = 0
	}
	byDate := make(map[time.Time]*dateTally)
	for _, r := range records {
		day := truncateDay(r.Date)
		t, ok := byDate[day]
		if !ok {
			t = &dateTally{date: day}
			byDate[day] = t
		}
		t.games++
		if r.Correct() {
			t.correct++
		}
		t.logLoss += r.LogLoss()
	}

	tallies := make([]*dateTally, 0, len(byDate))
	for _, t := range byDate {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool { return tallies[i].date.Before(tallies[j].date) })

	// prefix[i] sums tallies[:i]
	prefix := make([]dateTally, len(tallies)+1)
	for i, t := range tallies {
		prefix[i+1] = dateTally{
			games:   prefix[i].games + t.games,
			correct: prefix[i].correct + t.correct,
			logLoss: prefix[i].logLoss + t.logLoss,
		}
	}

	points := make([]PerformancePoint, len(tallies))
	for i, t := range tallies {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		cum := prefix[i+1]
		roll := dateTally{
			games:   prefix[i+1].games - prefix[lo].games,
			correct: prefix[i+1].correct - prefix[lo].correct,
			logLoss: prefix[i+1].logLoss - prefix[lo].logLoss,
		}
		points[i] = PerformancePoint{
			Date:               t.date,
			PredictionDate:     t.date.Format(DateLayout),
			Games:              cum.games,
			CumulativeAccuracy: float64(cum.correct) / float64(cum.games),
			RollingAccuracy:    float64(roll.correct) / float64(roll.games),
			CumulativeLogLoss:  cum.logLoss / float64(cum.games),
			RollingLogLoss:     roll.logLoss / float64(roll.games),
		}
	}
	return points
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Axis names the y axis a series is drawn against.
type Axis string

const (
	AccuracyAxis Axis = "accuracy"
	LogLossAxis  Axis = "log_loss"
)

// LineSeries describes one line of the performance chart.
type LineSeries struct {
	Name  string
	Axis  Axis
	Color string
	Y     func(PerformancePoint) float64
}

// DefaultPerformanceSeries is the four-line layout of the model
// performance page. Accuracy is shown in percent.
func DefaultPerformanceSeries() []LineSeries {
	return []LineSeries{
		{Name: "Cumulative", Axis: AccuracyAxis, Color: "#1f77b4", Y: func(p PerformancePoint) float64 { return p.CumulativeAccuracy * 100 }},
		{Name: "Rolling", Axis: AccuracyAxis, Color: "#ff7f0e", Y: func(p PerformancePoint) float64 { return p.RollingAccuracy * 100 }},
		{Name: "Cumulative", Axis: LogLossAxis, Color: "#1f77b4", Y: func(p PerformancePoint) float64 { return p.CumulativeLogLoss }},
		{Name: "Rolling", Axis: LogLossAxis, Color: "#ff7f0e", Y: func(p PerformancePoint) float64 { return p.RollingLogLoss }},
	}
}

// LinePoint is one vertex of a series.
type LinePoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// SeriesData is a LineSeries evaluated over the performance points.
type SeriesData struct {
	Name   string      `json:"name"`
	Axis   Axis        `json:"axis"`
	Color  string      `json:"color"`
	Points []LinePoint `json:"points"`
}

// Extent is a padded min/max pair for an axis.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PerformanceChart is the payload behind the model performance chart.
type PerformanceChart struct {
	Points    []PerformancePoint `json:"points"`
	Series    []SeriesData       `json:"series"`
	Axes      map[Axis]Extent    `json:"axes"`
	FirstDate string             `json:"first_date,omitempty"`
	LastDate  string             `json:"last_date,omitempty"`
}

// BuildPerformanceChart evaluates each series and pads each axis extent by
// 5% below and above.
func BuildPerformanceChart(points []PerformancePoint, series []LineSeries) PerformanceChart {
	chart := PerformanceChart{
		Points: points,
		Series: make([]SeriesData, 0, len(series)),
		Axes:   make(map[Axis]Extent),
	}
	if len(points) > 0 {
		chart.FirstDate = points[0].PredictionDate
		chart.LastDate = points[len(points)-1].PredictionDate
	}

	lo := make(map[Axis]float64)
	hi := make(map[Axis]float64)
	for _, s := range series {
		data := SeriesData{Name: s.Name, Axis: s.Axis, Color: s.Color, Points: make([]LinePoint, len(points))}
		for i, p := range points {
			y := s.Y(p)
			data.Points[i] = LinePoint{X: p.PredictionDate, Y: y}
			if cur, ok := lo[s.Axis]; !ok || y < cur {
				lo[s.Axis] = y
			}
			if cur, ok := hi[s.Axis]; !ok || y > cur {
				hi[s.Axis] = y
			}
		}
		chart.Series = append(chart.Series, data)
	}
	for axis, lowest := range lo {
		chart.Axes[axis] = Extent{Min: lowest * 0.95, Max: hi[axis] * 1.05}
	}
	return chart
}
