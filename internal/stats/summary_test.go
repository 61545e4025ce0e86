package stats

import (
	"math"
	"testing"

	"github.com/jengzang/heatgrid-backend-go/internal/models"
)

func TestSummarizeValues(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantMean  float64
		wantCount int
	}{
		{"three samples", []float64{20, 30, 40}, 30, 3},
		{"nan excluded", []float64{20, math.NaN(), 40}, 30, 2},
		{"inf excluded", []float64{20, math.Inf(1), 40}, 30, 2},
		{"rounded", []float64{20.04, 20.12}, 20.1, 2},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeValues(tt.values)
			if got.MeanTemperature != tt.wantMean || got.SampleCount != tt.wantCount {
				t.Errorf("got mean=%v count=%d, want mean=%v count=%d",
					got.MeanTemperature, got.SampleCount, tt.wantMean, tt.wantCount)
			}
		})
	}
}

func TestSummarizeGrid(t *testing.T) {
	samples := []models.TemperatureSample{
		{Row: 0, Col: 0, Value: 20},
		{Row: 0, Col: 1, Value: math.NaN()},
		{Row: 1, Col: 1, Value: 40},
	}
	g, _ := models.NewTemperatureGrid(models.Period{Year: "2024", Month: "07"}, 2, 2, samples)

	got := Summarize(g)
	want := models.AggregateSummary{MeanTemperature: 30, SampleCount: 2, MinTemperature: 20, MaxTemperature: 40}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}

	if s := Summarize(nil); s.SampleCount != 0 {
		t.Errorf("nil grid count = %d", s.SampleCount)
	}
}

func TestRound(t *testing.T) {
	if got := Round(29.96, 1); got != 30 {
		t.Errorf("Round(29.96,1) = %v", got)
	}
	if got := Round(-1.25, 1); got != -1.3 {
		t.Errorf("Round(-1.25,1) = %v", got)
	}
}
