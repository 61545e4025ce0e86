package models

import (
	"fmt"
	"math"
)

// Period selects one monthly dataset
type Period struct {
	Year  string `json:"year"`  // YYYY
	Month string `json:"month"` // 01-12
}

// String formats the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%s-%s", p.Year, p.Month)
}

// TemperatureSample is one parsed line of a dataset file
type TemperatureSample struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Value float64 `json:"value"` // °C
}

// CellKey identifies a grid cell
type CellKey struct {
	Row int
	Col int
}

// TemperatureGrid holds every sample of one period. It is built once and
// never mutated afterwards; a new period produces a new grid.
type TemperatureGrid struct {
	Period Period
	Height int
	Width  int
	values map[CellKey]float64
}

// NewTemperatureGrid builds a grid of the given dimensions. Samples outside
// the bounds or with a NaN/Inf value are dropped; on duplicate cells the
// last sample wins. It returns the grid and the number of dropped samples.
func NewTemperatureGrid(period Period, height, width int, samples []TemperatureSample) (*TemperatureGrid, int) {
	g := &TemperatureGrid{
		Period: period,
		Height: height,
		Width:  width,
		values: make(map[CellKey]float64, len(samples)),
	}

	dropped := 0
	for _, s := range samples {
		if !isFinite(s.Value) || s.Row < 0 || s.Row >= height || s.Col < 0 || s.Col >= width {
			dropped++
			continue
		}
		g.values[CellKey{Row: s.Row, Col: s.Col}] = s.Value
	}
	return g, dropped
}

// Value returns the base temperature of a cell and whether it has data
func (g *TemperatureGrid) Value(row, col int) (float64, bool) {
	v, ok := g.values[CellKey{Row: row, Col: col}]
	return v, ok
}

// Len returns the number of cells with data
func (g *TemperatureGrid) Len() int {
	return len(g.values)
}

// Values returns the present sample values in row-major order
func (g *TemperatureGrid) Values() []float64 {
	values := make([]float64, 0, len(g.values))
	for _, s := range g.Samples() {
		values = append(values, s.Value)
	}
	return values
}

// Samples returns one sample per cell with data, in row-major order
func (g *TemperatureGrid) Samples() []TemperatureSample {
	samples := make([]TemperatureSample, 0, len(g.values))
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if v, ok := g.values[CellKey{Row: row, Col: col}]; ok {
				samples = append(samples, TemperatureSample{Row: row, Col: col, Value: v})
			}
		}
	}
	return samples
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
