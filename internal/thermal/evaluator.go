package thermal

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/jengzang/heatgrid-backend-go/internal/spatial"
)

// Evaluator turns a temperature grid and a set of mitigation points into
// per-cell adjusted temperatures and colours
type Evaluator struct {
	proj    spatial.Projection
	falloff Falloff
	minTemp float64
	maxTemp float64
}

// NewEvaluator creates an evaluator for the given projection, falloff and
// temperature range
func NewEvaluator(proj spatial.Projection, falloff Falloff, minTemp, maxTemp float64) *Evaluator {
	return &Evaluator{
		proj:    proj,
		falloff: falloff,
		minTemp: minTemp,
		maxTemp: maxTemp,
	}
}

// Projection returns the projection shared with the presentation layer
func (e *Evaluator) Projection() spatial.Projection {
	return e.proj
}

// Cooling sums the contribution of every point at pos
func (e *Evaluator) Cooling(pos r3.Vector, points []r3.Vector) float64 {
	reach := e.falloff.Reach()
	var total float64
	for _, m := range points {
		d := spatial.Distance(pos, m)
		if d >= reach {
			continue
		}
		total += e.falloff.Cooling(d)
	}
	return total
}

// Adjust applies cooling to a base temperature. Cooling stops at minTemp;
// a base already below minTemp is left as it is.
func (e *Evaluator) Adjust(base, cooling float64) float64 {
	return math.Max(base-cooling, math.Min(base, e.minTemp))
}

// Normalize maps a temperature into [0,1] over the evaluator's range
func (e *Evaluator) Normalize(t float64) float64 {
	return clamp01((t - e.minTemp) / (e.maxTemp - e.minTemp))
}

// Evaluate computes every cell of the grid. A nil grid yields a field in
// which no cell has data.
func (e *Evaluator) Evaluate(grid *models.TemperatureGrid, mitigations []models.MitigationPoint) *models.ThermalField {
	points := make([]r3.Vector, len(mitigations))
	for i, m := range mitigations {
		points[i] = r3.Vector{X: m.X, Y: m.Y, Z: m.Z}
	}

	field := &models.ThermalField{
		Width:    e.proj.Width,
		Height:   e.proj.Height,
		MinTemp:  e.minTemp,
		MaxTemp:  e.maxTemp,
		CellSize: e.proj.CellRadius(),
		Cells:    make([]models.CellResult, 0, e.proj.Width*e.proj.Height),
	}

	for row := 0; row < e.proj.Height; row++ {
		for col := 0; col < e.proj.Width; col++ {
			pos := e.proj.Position(row, col)
			cell := models.CellResult{
				Row: row,
				Col: col,
				X:   pos.X,
				Y:   pos.Y,
				Z:   pos.Z,
				Hue: ColdestHue,
			}

			if grid != nil {
				if base, ok := grid.Value(row, col); ok {
					cooling := e.Cooling(pos, points)
					adjusted := e.Adjust(base, cooling)
					cell.HasData = true
					cell.BaseTemperature = base
					cell.Cooling = math.Max(base-adjusted, 0)
					cell.AdjustedTemperature = adjusted
					cell.Hue = Hue(e.Normalize(adjusted))
				}
			}

			cell.Color = HexColor(cell.Hue)
			field.Cells = append(field.Cells, cell)
		}
	}

	return field
}
