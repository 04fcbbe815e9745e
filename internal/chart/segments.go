// Package chart builds display-ready payloads for the prediction charts:
// stacked win-probability bars, goal distribution heatmaps, model
// performance series and team strength scatterplots.
//
// Everything here is a pure function of its inputs. Pixel geometry,
// axes and pointer events belong to the browser renderer.
package chart

// Segment is one labelled contribution to a stacked total, e.g. the
// probability of winning in regulation.
type Segment struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// AggregatedSegment is a Segment placed in a stacked layout.
type AggregatedSegment struct {
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Cumulative float64 `json:"cumulative"`
	Percent    float64 `json:"percent"`
}

// Scale is a linear mapping from Domain onto Range.
type Scale struct {
	Domain [2]float64
	Range  [2]float64
}

// IdentityScale maps [0, max] onto itself.
func IdentityScale(max float64) Scale {
	return Scale{Domain: [2]float64{0, max}, Range: [2]float64{0, max}}
}

// Apply interpolates v from the domain into the range. Values outside the
// domain are extrapolated. A zero-width domain maps to the middle of the
// range.
func (s Scale) Apply(v float64) float64 {
	width := s.Domain[1] - s.Domain[0]
	if width == 0 {
		return (s.Range[0] + s.Range[1]) / 2
	}
	t := (v - s.Domain[0]) / width
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Aggregate stacks segments using an identity scale over [0, domainMax].
func Aggregate(segments []Segment, domainMax float64) []AggregatedSegment {
	return AggregateScaled(segments, IdentityScale(domainMax))
}

// AggregateScaled drops non-positive segments and assigns each remaining
// one the running total of the values before it. Input order is kept.
func AggregateScaled(segments []Segment, scale Scale) []AggregatedSegment {
	out := make([]AggregatedSegment, 0, len(segments))
	cumulative := 0.0
	for _, s := range segments {
		if !(s.Value > 0) {
			continue
		}
		out = append(out, AggregatedSegment{
			Type:       s.Type,
			Value:      s.Value,
			Cumulative: cumulative,
			Percent:    scale.Apply(s.Value),
		})
		cumulative += s.Value
	}
	return out
}

// Total sums the raw segment values, including zero and negative ones.
func Total(segments []Segment) float64 {
	total := 0.0
	for _, s := range segments {
		total += s.Value
	}
	return total
}
