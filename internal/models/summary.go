package models

// AggregateSummary describes the raw samples of one period
type AggregateSummary struct {
	MeanTemperature float64 `json:"mean_temperature"` // rounded to 0.1
	SampleCount     int     `json:"sample_count"`
	MinTemperature  float64 `json:"min_temperature"`
	MaxTemperature  float64 `json:"max_temperature"`
}

// CityStat is one headline figure of the city summary
type CityStat struct {
	Value       interface{} `json:"value"`
	Unit        string      `json:"unit"`
	Description string      `json:"description"`
}

// CitySummary is the city.json document shown above the map
type CitySummary struct {
	City  string `json:"city"`
	Stats struct {
		AverageTemp          CityStat `json:"averageTemp"`
		AirQuality           CityStat `json:"airQuality"`
		VegetationPercentage CityStat `json:"vegetationPercentage"`
		CityScore            CityStat `json:"cityScore"`
	} `json:"stats"`
}

// AvailablePeriods lists the months with data per year
type AvailablePeriods struct {
	Years  []string            `json:"years"`
	Months map[string][]string `json:"months"`
}
