package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FavoredThreshold is the win probability at which a side is favored.
const FavoredThreshold = 0.50

// Unavailable is shown in place of odds that cannot be computed.
const Unavailable = "N/A"

// PendingScore is the placeholder used for a score that is not known yet.
const PendingScore = "-"

// maxGoals bounds a believable score; larger values decode as pending.
const maxGoals = math.MaxInt32

// Odds holds fair-value odds for one side.
type Odds struct {
	Decimal   float64 `json:"decimal"`
	American  int     `json:"american"`
	Available bool    `json:"available"`
}

// OddsFromProbability converts a win probability into decimal and
// American odds. Probabilities outside (0, 1), or so close to either end
// that the moneyline does not fit in an int32, are reported as
// unavailable.
func OddsFromProbability(p float64) Odds {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return Odds{}
	}
	d := 1 / p
	if math.IsInf(d, 0) {
		return Odds{}
	}
	m := moneyline(d)
	if math.IsNaN(m) || m > math.MaxInt32 || m < math.MinInt32 {
		return Odds{}
	}
	return Odds{Decimal: d, American: int(m), Available: true}
}

// DecimalToAmerican converts decimal odds to the moneyline format. Even
// odds (2.0) and longer are underdog prices and come out positive.
func DecimalToAmerican(d float64) int {
	return int(moneyline(d))
}

func moneyline(d float64) float64 {
	if d >= 2 {
		return roundHalfUp((d - 1) * 100)
	}
	return roundHalfUp(-100 / (d - 1))
}

// AmericanToDecimal is the inverse of DecimalToAmerican.
func AmericanToDecimal(a int) float64 {
	if a > 0 {
		return float64(a)/100 + 1
	}
	return 1 - 100/float64(a)
}

// DecimalString formats the decimal odds with two places.
func (o Odds) DecimalString() string {
	if !o.Available {
		return Unavailable
	}
	return decimal.NewFromFloat(o.Decimal).StringFixed(2)
}

// AmericanString formats the moneyline with an explicit sign for
// underdog prices.
func (o Odds) AmericanString() string {
	if !o.Available {
		return Unavailable
	}
	if o.Decimal >= 2 {
		return "+" + strconv.Itoa(o.American)
	}
	return strconv.Itoa(o.American)
}

// OutcomeSummary is the derived win probability and odds for one side.
type OutcomeSummary struct {
	TotalProbability float64 `json:"total_probability"`
	Odds             Odds    `json:"odds"`
}

// Outcome summarises both sides of a game.
type Outcome struct {
	Home        OutcomeSummary `json:"home"`
	Away        OutcomeSummary `json:"away"`
	HomeFavored bool           `json:"home_favored"`
}

// Summarize derives win totals and odds from the raw home and away
// segments. Zero-valued segments are counted; filtering is a display
// concern.
func Summarize(home, away []Segment) Outcome {
	homeTotal := Total(home)
	awayTotal := Total(away)
	return Outcome{
		Home:        OutcomeSummary{TotalProbability: homeTotal, Odds: OddsFromProbability(homeTotal)},
		Away:        OutcomeSummary{TotalProbability: awayTotal, Odds: OddsFromProbability(awayTotal)},
		HomeFavored: homeTotal >= FavoredThreshold,
	}
}

// OddsFormat selects the odds representation used by OddsLine.
type OddsFormat int

const (
	DecimalFormat OddsFormat = iota
	AmericanFormat
)

// OddsLine renders "AWY a : h HOM" for the chart footer.
func OddsLine(awayAbb string, away Odds, homeAbb string, home Odds, format OddsFormat) string {
	render := Odds.DecimalString
	if format == AmericanFormat {
		render = Odds.AmericanString
	}
	return fmt.Sprintf("%s %s : %s %s", awayAbb, render(away), render(home), homeAbb)
}

// ProbabilityString renders a probability as a percentage with two places.
func ProbabilityString(p float64) string {
	return decimal.NewFromFloat(p*100).StringFixed(2) + "%"
}

// Result classifies a prediction against the final score.
type Result string

const (
	ResultPending   Result = "pending"
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
)

// Marker is the glyph shown next to the favored team.
func (r Result) Marker() string {
	switch r {
	case ResultCorrect:
		return "✔"
	case ResultIncorrect:
		return "✘"
	default:
		return "*"
	}
}

// Colour is the fill used for the marker.
func (r Result) Colour() string {
	switch r {
	case ResultCorrect:
		return "green"
	case ResultIncorrect:
		return "red"
	default:
		return "black"
	}
}

// Goals is one side's final score, or unknown while the game is pending.
type Goals struct {
	value int
	known bool
}

// KnownGoals returns a final score of n goals.
func KnownGoals(n int) Goals {
	return Goals{value: n, known: true}
}

// PendingGoals returns the placeholder score.
func PendingGoals() Goals {
	return Goals{}
}

// ParseGoals reads a score as stored by the model backend: a
// non-negative integer or the "-" placeholder. Anything else is treated
// as pending.
func ParseGoals(s string) Goals {
	s = strings.TrimSpace(s)
	if s == "" || s == PendingScore {
		return Goals{}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > maxGoals {
		return Goals{}
	}
	return KnownGoals(n)
}

// Value returns the goals and whether the score is known.
func (g Goals) Value() (int, bool) {
	return g.value, g.known
}

// Known reports whether a final score is available.
func (g Goals) Known() bool {
	return g.known
}

func (g Goals) String() string {
	if !g.known {
		return PendingScore
	}
	return strconv.Itoa(g.value)
}

// MarshalJSON writes a number, or "-" when pending.
func (g Goals) MarshalJSON() ([]byte, error) {
	if !g.known {
		return []byte(`"` + PendingScore + `"`), nil
	}
	return []byte(strconv.Itoa(g.value)), nil
}

// UnmarshalJSON accepts a number, a numeric string or the placeholder.
func (g *Goals) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*g = Goals{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = ParseGoals(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*g = Goals{}
		return nil
	}
	if f < 0 || f > maxGoals || f != math.Trunc(f) {
		*g = Goals{}
		return nil
	}
	*g = KnownGoals(int(f))
	return nil
}

// Score is the actual result of a game.
type Score struct {
	Home Goals `json:"home"`
	Away Goals `json:"away"`
}

// Final reports whether both sides have a known score.
func (s Score) Final() bool {
	return s.Home.Known() && s.Away.Known()
}

// Classify compares the predicted favorite with the final score. Unknown
// scores are pending.
func Classify(homeFavored bool, score Score) Result {
	home, homeKnown := score.Home.Value()
	away, awayKnown := score.Away.Value()
	if !homeKnown || !awayKnown {
		return ResultPending
	}
	if (home > away) == homeFavored {
		return ResultCorrect
	}
	return ResultIncorrect
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
