package spatial

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/jengzang/heatgrid-backend-go/internal/config"
)

// Axis names a horizontal world axis
type Axis string

const (
	AxisX Axis = "x"
	AxisZ Axis = "z"
)

// Projection maps grid indices to world space. The same projection is used
// to place cell primitives and to measure distances to mitigation points,
// so the two can never drift apart.
//
// The grid is centred on the origin: the axis that carries columns (or rows,
// depending on RowAxis) spans SpanX units along X, the other spans SpanZ
// units along Z. Every cell sits at height BaseY.
type Projection struct {
	Width   int
	Height  int
	SpanX   float64
	SpanZ   float64
	BaseY   float64
	RowAxis Axis
	FlipX   bool
	FlipZ   bool
}

// NewProjection builds a projection from grid configuration
func NewProjection(cfg config.GridConfig) Projection {
	return Projection{
		Width:   cfg.Width,
		Height:  cfg.Height,
		SpanX:   cfg.SpanX,
		SpanZ:   cfg.SpanZ,
		BaseY:   cfg.BaseY,
		RowAxis: Axis(cfg.RowAxis),
		FlipX:   cfg.FlipX,
		FlipZ:   cfg.FlipZ,
	}
}

// axes returns the index and cell count carried by X and by Z
func (p Projection) axes(row, col int) (xi, nx, zi, nz int) {
	if p.RowAxis == AxisX {
		return row, p.Height, col, p.Width
	}
	return col, p.Width, row, p.Height
}

// Position returns the world-space centre of cell (row, col)
func (p Projection) Position(row, col int) r3.Vector {
	xi, nx, zi, nz := p.axes(row, col)

	x := (float64(xi) - float64(nx-1)/2) * (p.SpanX / float64(nx))
	z := (float64(zi) - float64(nz-1)/2) * (p.SpanZ / float64(nz))
	if p.FlipX {
		x = -x
	}
	if p.FlipZ {
		z = -z
	}

	return r3.Vector{X: x, Y: p.BaseY, Z: z}
}

// InBounds reports whether (row, col) is a cell of the grid
func (p Projection) InBounds(row, col int) bool {
	return row >= 0 && row < p.Height && col >= 0 && col < p.Width
}

// CellRadius is the radius of the sphere drawn for each cell
func (p Projection) CellRadius() float64 {
	_, nx, _, nz := p.axes(0, 0)
	return math.Min(p.SpanX/float64(nx), p.SpanZ/float64(nz)) * 0.1
}

// Distance returns the Euclidean distance between two world positions
func Distance(a, b r3.Vector) float64 {
	return a.Distance(b)
}
