package models

// MitigationPoint is a user-placed green zone in world space
type MitigationPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MitigationRequest places a point either at explicit world coordinates or
// at the world position of a grid cell
type MitigationRequest struct {
	X   *float64 `json:"x"`
	Y   *float64 `json:"y"`
	Z   *float64 `json:"z"`
	Row *int     `json:"row"`
	Col *int     `json:"col"`
}

// CellResult is the evaluated state of one grid cell
type CellResult struct {
	Row                 int     `json:"row"`
	Col                 int     `json:"col"`
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	Z                   float64 `json:"z"`
	HasData             bool    `json:"has_data"`
	BaseTemperature     float64 `json:"base_temperature"`
	AdjustedTemperature float64 `json:"adjusted_temperature"`
	Cooling             float64 `json:"cooling,omitempty"`
	Hue                 float64 `json:"hue"`   // 0-360
	Color               string  `json:"color"` // #rrggbb
}

// ThermalField is the full evaluated grid, row-major
type ThermalField struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	MinTemp  float64      `json:"min_temp"`
	MaxTemp  float64      `json:"max_temp"`
	CellSize float64      `json:"cell_size"` // sphere radius for cell primitives
	Cells    []CellResult `json:"cells"`
}

// Cell returns the result at (row, col)
func (f *ThermalField) Cell(row, col int) *CellResult {
	if row < 0 || row >= f.Height || col < 0 || col >= f.Width {
		return nil
	}
	return &f.Cells[row*f.Width+col]
}
