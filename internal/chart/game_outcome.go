package chart

// Outcome types in the order the model reports them.
const (
	Regulation = "REG"
	Overtime   = "OT"
	Shootout   = "SO"
)

// lightenStep is the per-segment lightening applied to stacked bars.
const lightenStep = 12.5

// SegmentsFromWinPercentages splits the model's six win percentages
// (home REG/OT/SO then away REG/OT/SO) into home and away segments. With
// mergeShootout the shootout mass is folded into overtime.
func SegmentsFromWinPercentages(wp [6]float64, mergeShootout bool) (home, away []Segment) {
	side := func(reg, ot, so float64) []Segment {
		if mergeShootout {
			return []Segment{{Type: Regulation, Value: reg}, {Type: Overtime, Value: ot + so}}
		}
		return []Segment{{Type: Regulation, Value: reg}, {Type: Overtime, Value: ot}, {Type: Shootout, Value: so}}
	}
	return side(wp[0], wp[1], wp[2]), side(wp[3], wp[4], wp[5])
}

// TeamInfo identifies a team on a chart.
type TeamInfo struct {
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation"`
	Colors       []string `json:"colors"`
}

func (t TeamInfo) color(i int) string {
	if i < len(t.Colors) {
		return t.Colors[i]
	}
	if len(t.Colors) > 0 {
		return t.Colors[0]
	}
	return "#000000"
}

// StackedSegment is an aggregated segment with its bar and accent fills.
type StackedSegment struct {
	AggregatedSegment
	Fill   string `json:"fill"`
	Accent string `json:"accent"`
}

// SideOutcome is one row of the game outcome chart.
type SideOutcome struct {
	Team             TeamInfo         `json:"team"`
	Segments         []StackedSegment `json:"segments"`
	Probability      float64          `json:"probability"`
	ProbabilityLabel string           `json:"probability_label"`
	Favored          bool             `json:"favored"`
	Score            Goals            `json:"score"`
	Odds             Odds             `json:"odds"`
}

// GameOutcome is the payload behind the stacked win probability chart.
type GameOutcome struct {
	GamePk       int64       `json:"game_pk"`
	Home         SideOutcome `json:"home"`
	Away         SideOutcome `json:"away"`
	HomeFavored  bool        `json:"home_favored"`
	Result       Result      `json:"result"`
	Marker       string      `json:"marker"`
	MarkerColour string      `json:"marker_colour"`
	DecimalOdds  string      `json:"decimal_odds"`
	AmericanOdds string      `json:"american_odds"`
}

// GameOutcomeInput is everything needed to build a GameOutcome.
type GameOutcomeInput struct {
	GamePk       int64
	Home         TeamInfo
	Away         TeamInfo
	HomeSegments []Segment
	AwaySegments []Segment
	Score        Score
}

// BuildGameOutcome aggregates both sides, derives the odds and classifies
// the prediction against the score.
func BuildGameOutcome(in GameOutcomeInput) GameOutcome {
	outcome := Summarize(in.HomeSegments, in.AwaySegments)
	result := Classify(outcome.HomeFavored, in.Score)

	home := SideOutcome{
		Team:             in.Home,
		Segments:         stack(in.HomeSegments, in.Home),
		Probability:      outcome.Home.TotalProbability,
		ProbabilityLabel: ProbabilityString(outcome.Home.TotalProbability),
		Favored:          outcome.HomeFavored,
		Score:            in.Score.Home,
		Odds:             outcome.Home.Odds,
	}
	away := SideOutcome{
		Team:             in.Away,
		Segments:         stack(in.AwaySegments, in.Away),
		Probability:      outcome.Away.TotalProbability,
		ProbabilityLabel: ProbabilityString(outcome.Away.TotalProbability),
		Favored:          !outcome.HomeFavored,
		Score:            in.Score.Away,
		Odds:             outcome.Away.Odds,
	}

	return GameOutcome{
		GamePk:       in.GamePk,
		Home:         home,
		Away:         away,
		HomeFavored:  outcome.HomeFavored,
		Result:       result,
		Marker:       result.Marker(),
		MarkerColour: result.Colour(),
		DecimalOdds:  OddsLine(in.Away.Abbreviation, away.Odds, in.Home.Abbreviation, home.Odds, DecimalFormat),
		AmericanOdds: OddsLine(in.Away.Abbreviation, away.Odds, in.Home.Abbreviation, home.Odds, AmericanFormat),
	}
}

func stack(segments []Segment, team TeamInfo) []StackedSegment {
	aggregated := Aggregate(segments, 1)
	out := make([]StackedSegment, len(aggregated))
	for i, seg := range aggregated {
		out[i] = StackedSegment{
			AggregatedSegment: seg,
			Fill:              LightenColor(team.color(0), float64(i)*lightenStep),
			Accent:            LightenColor(team.color(1), float64(i)*lightenStep),
		}
	}
	return out
}
