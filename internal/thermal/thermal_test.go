package thermal

import (
	"math"
	"testing"

	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/jengzang/heatgrid-backend-go/internal/spatial"
	"github.com/kr/pretty"
)

const (
	testMin = 15.0
	testMax = 45.0

	coldBase = 12.0
)

func testEvaluator() *Evaluator {
	proj := spatial.Projection{Width: 20, Height: 10, SpanX: 250, SpanZ: 220, BaseY: 3, RowAxis: spatial.AxisZ}
	return NewEvaluator(proj, DefaultFalloff, testMin, testMax)
}

func testGrid(t *testing.T) *models.TemperatureGrid {
	t.Helper()
	var samples []models.TemperatureSample
	for row := 0; row < 10; row++ {
		for col := 0; col < 20; col++ {
			if row == 9 && col == 19 {
				continue // leave one cell without data
			}
			samples = append(samples, models.TemperatureSample{Row: row, Col: col, Value: 20 + float64(row+col)})
		}
	}
	samples[0].Value = coldBase // (0,0) sits below the display range
	g, dropped := models.NewTemperatureGrid(models.Period{Year: "2024", Month: "07"}, 10, 20, samples)
	if dropped != 0 {
		t.Fatalf("dropped %d samples", dropped)
	}
	return g
}

func pointAt(e *Evaluator, row, col int) models.MitigationPoint {
	p := e.Projection().Position(row, col)
	return models.MitigationPoint{X: p.X, Y: p.Y, Z: p.Z}
}

func TestFalloffCooling(t *testing.T) {
	tests := []struct {
		d    float64
		want float64
	}{
		{0, 5}, {4.99, 5}, {5, 4}, {9.9, 4}, {10, 3}, {14, 3}, {15, 2}, {19.5, 2}, {20, 1}, {24.9, 1}, {25, 0}, {100, 0},
	}
	for _, tt := range tests {
		if got := DefaultFalloff.Cooling(tt.d); got != tt.want {
			t.Errorf("Cooling(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
	if DefaultFalloff.Reach() != 25 {
		t.Errorf("Reach = %v, want 25", DefaultFalloff.Reach())
	}
}

func TestHue(t *testing.T) {
	if h := Hue(0); h != 240 {
		t.Errorf("Hue(0) = %v, want 240", h)
	}
	if h := Hue(1); h != 0 {
		t.Errorf("Hue(1) = %v, want 0", h)
	}
	if h := Hue(0.5); h != 120 {
		t.Errorf("Hue(0.5) = %v, want green 120", h)
	}
	if h := Hue(-3); h != 240 {
		t.Errorf("Hue(-3) = %v, want clamp to 240", h)
	}
	if h := Hue(7); h != 0 {
		t.Errorf("Hue(7) = %v, want clamp to 0", h)
	}

	prev := Hue(0)
	for i := 1; i <= 1000; i++ {
		h := Hue(float64(i) / 1000)
		if h > prev {
			t.Fatalf("Hue not monotonic at n=%v: %v > %v", float64(i)/1000, h, prev)
		}
		prev = h
	}
}

func TestHexColor(t *testing.T) {
	tests := map[float64]string{
		0:   "#ff0000",
		60:  "#ffff00",
		120: "#00ff00",
		180: "#00ffff",
		240: "#0000ff",
		360: "#ff0000",
	}
	for hue, want := range tests {
		if got := HexColor(hue); got != want {
			t.Errorf("HexColor(%v) = %s, want %s", hue, got, want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := models.MitigationPoint{X: 1}
	b := models.MitigationPoint{X: 2}
	c := models.MitigationPoint{X: 3}
	if i := r.Place(a); i != 0 {
		t.Errorf("first index = %d", i)
	}
	r.Place(b)
	r.Place(b) // no de-duplication
	r.Place(c)

	snapshot := r.List()
	snapshot[0].X = 99
	if r.List()[0].X != 1 {
		t.Error("List must return a copy")
	}

	if err := r.Remove(1); err != nil {
		t.Fatal(err)
	}
	want := []models.MitigationPoint{a, b, c}
	if diff := pretty.Diff(r.List(), want); len(diff) > 0 {
		t.Errorf("after remove: %v", diff)
	}
	if err := r.Remove(5); err == nil {
		t.Error("expected out of range error")
	}

	r.Clear()
	if r.Len() != 0 || len(r.List()) != 0 {
		t.Error("Clear left points behind")
	}
}

func TestEvaluateNoMitigation(t *testing.T) {
	e := testEvaluator()
	g := testGrid(t)
	field := e.Evaluate(g, nil)

	if len(field.Cells) != 200 {
		t.Fatalf("cells = %d, want 200", len(field.Cells))
	}
	for _, c := range field.Cells {
		if !c.HasData {
			continue
		}
		if c.AdjustedTemperature != c.BaseTemperature || c.Cooling != 0 {
			t.Fatalf("cell (%d,%d) changed without mitigation: %+v", c.Row, c.Col, c)
		}
	}

	if cold := field.Cell(0, 0); cold.AdjustedTemperature != coldBase || cold.Hue != ColdestHue {
		t.Errorf("cell below min_temp = %+v, want base %v kept", cold, coldBase)
	}

	missing := field.Cell(9, 19)
	if missing.HasData || missing.Hue != ColdestHue || missing.Color != "#0000ff" {
		t.Errorf("cell without data = %+v, want coldest blue", missing)
	}
}

func TestEvaluateExactPosition(t *testing.T) {
	e := testEvaluator()
	g := testGrid(t)
	base, _ := g.Value(5, 10)

	far := models.MitigationPoint{X: 10000, Y: 3, Z: 10000}
	field := e.Evaluate(g, []models.MitigationPoint{pointAt(e, 5, 10), far})

	c := field.Cell(5, 10)
	if c.AdjustedTemperature != base-5 {
		t.Errorf("adjusted = %v, want %v", c.AdjustedTemperature, base-5)
	}

	nearOnly := e.Evaluate(g, []models.MitigationPoint{pointAt(e, 5, 10)})
	for i := range field.Cells {
		if field.Cells[i].AdjustedTemperature != nearOnly.Cells[i].AdjustedTemperature {
			t.Fatalf("far point changed cell %d", i)
		}
	}
}

func TestEvaluateStackingAndFloor(t *testing.T) {
	e := testEvaluator()
	g := testGrid(t)

	p := pointAt(e, 2, 3)
	two := e.Evaluate(g, []models.MitigationPoint{p, p})
	base, _ := g.Value(2, 3)
	want := math.Max(base-10, testMin)
	if got := two.Cell(2, 3).AdjustedTemperature; got != want {
		t.Errorf("stacked adjusted = %v, want %v", got, want)
	}

	many := make([]models.MitigationPoint, 50)
	for i := range many {
		many[i] = p
	}
	field := e.Evaluate(g, many)
	for _, c := range field.Cells {
		if c.HasData && c.AdjustedTemperature < math.Min(c.BaseTemperature, testMin) {
			t.Fatalf("cell (%d,%d) below floor: %v", c.Row, c.Col, c.AdjustedTemperature)
		}
	}
	if got := field.Cell(2, 3); got.AdjustedTemperature != testMin || got.Hue != 240 {
		t.Errorf("floored cell = %+v", got)
	}
}

func TestEvaluateClearRestores(t *testing.T) {
	e := testEvaluator()
	g := testGrid(t)
	r := NewRegistry()
	r.Place(pointAt(e, 0, 0))
	r.Place(pointAt(e, 1, 1))
	r.Place(pointAt(e, 8, 15))

	cooled := e.Evaluate(g, r.List())
	if cooled.Cell(1, 1).Cooling == 0 {
		t.Fatal("expected cooling near placed point")
	}
	if got := cooled.Cell(0, 0).AdjustedTemperature; got != coldBase {
		t.Errorf("cooled cell below min_temp = %v, want %v", got, coldBase)
	}

	r.Clear()
	restored := e.Evaluate(g, r.List())
	for _, c := range restored.Cells {
		if c.HasData && c.AdjustedTemperature != c.BaseTemperature {
			t.Fatalf("cell (%d,%d) not restored", c.Row, c.Col)
		}
	}
	if got := restored.Cell(0, 0).AdjustedTemperature; got != coldBase {
		t.Errorf("cold cell after clear = %v, want %v", got, coldBase)
	}
}

func TestEvaluateNilGrid(t *testing.T) {
	e := testEvaluator()
	field := e.Evaluate(nil, nil)
	for _, c := range field.Cells {
		if c.HasData || c.Hue != ColdestHue {
			t.Fatalf("nil grid produced data cell %+v", c)
		}
	}
}
