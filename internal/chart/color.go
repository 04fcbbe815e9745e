package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LightenColor shifts every RGB channel of a #rrggbb colour by
// round(2.55*percent), clamping to the valid range. Negative percentages
// darken. Colours that cannot be parsed are returned unchanged.
func LightenColor(hex string, percent float64) string {
	raw := strings.TrimPrefix(hex, "#")
	if len(raw) != 6 {
		return hex
	}
	n, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return hex
	}
	amt := int(math.Round(2.55 * percent))
	r := clampChannel(int(n>>16) + amt)
	g := clampChannel(int(n>>8&0xff) + amt)
	b := clampChannel(int(n&0xff) + amt)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
