package thermal

import (
	"fmt"
	"math"
)

// hueStop is one breakpoint of the gradient
type hueStop struct {
	n   float64
	hue float64
}

// blue -> cyan -> green -> yellow -> orange -> red
var gradient = []hueStop{
	{0, 240},
	{0.25, 180},
	{0.5, 120},
	{0.75, 60},
	{0.9, 30},
	{1, 0},
}

// ColdestHue is used for cells without data
const ColdestHue = 240

// Hue maps a normalised temperature n in [0,1] to a hue in degrees.
// Values outside the range are clamped.
func Hue(n float64) float64 {
	n = clamp01(n)
	for i := 1; i < len(gradient); i++ {
		lo, hi := gradient[i-1], gradient[i]
		if n <= hi.n {
			t := (n - lo.n) / (hi.n - lo.n)
			return lo.hue + t*(hi.hue-lo.hue)
		}
	}
	return gradient[len(gradient)-1].hue
}

// HexColor converts hsl(hue, 100%, 50%) to #rrggbb
func HexColor(hue float64) string {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}

	// with s=1 and l=0.5 the chroma is 1
	x := 1 - math.Abs(math.Mod(h/60, 2)-1)
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = 1, x, 0
	case h < 120:
		r, g, b = x, 1, 0
	case h < 180:
		r, g, b = 0, 1, x
	case h < 240:
		r, g, b = 0, x, 1
	case h < 300:
		r, g, b = x, 0, 1
	default:
		r, g, b = 1, 0, x
	}

	return fmt.Sprintf("#%02x%02x%02x", to8(r), to8(g), to8(b))
}

func to8(v float64) int {
	return int(math.Round(v * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
