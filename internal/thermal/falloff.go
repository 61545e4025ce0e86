package thermal

import (
	"sort"

	"github.com/jengzang/heatgrid-backend-go/internal/config"
)

// Band cools a cell by Cooling degrees when its distance to a mitigation
// point is strictly less than Below.
type Band struct {
	Below   float64
	Cooling float64
}

// Falloff is a stepped cooling table ordered by ascending distance
type Falloff []Band

// DefaultFalloff is the five-band table used by the demo
var DefaultFalloff = Falloff{
	{Below: 5, Cooling: 5},
	{Below: 10, Cooling: 4},
	{Below: 15, Cooling: 3},
	{Below: 20, Cooling: 2},
	{Below: 25, Cooling: 1},
}

// NewFalloff converts configured bands, sorting them by distance
func NewFalloff(bands []config.FalloffBand) Falloff {
	if len(bands) == 0 {
		return DefaultFalloff
	}
	f := make(Falloff, len(bands))
	for i, b := range bands {
		f[i] = Band{Below: b.Below, Cooling: b.Cooling}
	}
	sort.Slice(f, func(i, j int) bool { return f[i].Below < f[j].Below })
	return f
}

// Cooling returns the cooling contributed by one point at distance d
func (f Falloff) Cooling(d float64) float64 {
	for _, b := range f {
		if d < b.Below {
			return b.Cooling
		}
	}
	return 0
}

// Reach is the distance beyond which a point has no effect
func (f Falloff) Reach() float64 {
	if len(f) == 0 {
		return 0
	}
	return f[len(f)-1].Below
}
