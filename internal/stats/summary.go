package stats

import (
	"math"

	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"gonum.org/v1/gonum/floats"
)

// Summarize computes the mean, count and extremes of the raw samples in a
// grid. Mitigation does not affect the result.
func Summarize(grid *models.TemperatureGrid) models.AggregateSummary {
	if grid == nil {
		return models.AggregateSummary{}
	}
	return SummarizeValues(grid.Values())
}

// SummarizeValues summarises a slice of temperatures, ignoring NaN and Inf
func SummarizeValues(values []float64) models.AggregateSummary {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return models.AggregateSummary{}
	}

	return models.AggregateSummary{
		MeanTemperature: Round(floats.Sum(finite)/float64(len(finite)), 1),
		SampleCount:     len(finite),
		MinTemperature:  floats.Min(finite),
		MaxTemperature:  floats.Max(finite),
	}
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
