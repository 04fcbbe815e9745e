package chart

import "sort"

// extentPadding widens the scatter extents so markers are not clipped.
const extentPadding = 1.2

// TeamStrength is a team's posterior offence and defence ratings.
type TeamStrength struct {
	Name          string   `json:"team_name"`
	Abbreviation  string   `json:"team_abb"`
	Colors        []string `json:"team_colors"`
	OffenceMedian float64  `json:"offence_median"`
	OffenceLow    float64  `json:"offence_hpd_low"`
	OffenceHigh   float64  `json:"offence_hpd_high"`
	DefenceMedian float64  `json:"defence_median"`
	DefenceLow    float64  `json:"defence_hpd_low"`
	DefenceHigh   float64  `json:"defence_hpd_high"`
}

// TeamScatter is the payload behind the team strength scatterplot.
// Defence is plotted on x and offence on y.
type TeamScatter struct {
	Teams   []TeamStrength `json:"teams"`
	XExtent Extent         `json:"x_extent"`
	YExtent Extent         `json:"y_extent"`
}

// BuildTeamScatter sorts teams by name and scales the median extents.
func BuildTeamScatter(teams []TeamStrength) TeamScatter {
	sorted := make([]TeamStrength, len(teams))
	copy(sorted, teams)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	scatter := TeamScatter{Teams: sorted}
	for i, t := range sorted {
		if i == 0 {
			scatter.XExtent = Extent{Min: t.DefenceMedian, Max: t.DefenceMedian}
			scatter.YExtent = Extent{Min: t.OffenceMedian, Max: t.OffenceMedian}
			continue
		}
		scatter.XExtent.Min = min(scatter.XExtent.Min, t.DefenceMedian)
		scatter.XExtent.Max = max(scatter.XExtent.Max, t.DefenceMedian)
		scatter.YExtent.Min = min(scatter.YExtent.Min, t.OffenceMedian)
		scatter.YExtent.Max = max(scatter.YExtent.Max, t.OffenceMedian)
	}
	scatter.XExtent = Extent{Min: scatter.XExtent.Min * extentPadding, Max: scatter.XExtent.Max * extentPadding}
	scatter.YExtent = Extent{Min: scatter.YExtent.Min * extentPadding, Max: scatter.YExtent.Max * extentPadding}
	return scatter
}
