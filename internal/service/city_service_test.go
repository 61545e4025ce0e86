package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/sirupsen/logrus"
)

const malagaJSON = `{
  "city": "Málaga",
  "stats": {
    "averageTemp": {"value": 24.3, "unit": "°C", "description": "Average summer temperature"},
    "airQuality": {"value": 42, "unit": "AQI", "description": "Good"},
    "vegetationPercentage": {"value": 18, "unit": "%", "description": "Green cover"},
    "cityScore": {"value": "B", "unit": "", "description": "Heat resilience"}
  }
}`

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestCityServiceSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "city.json")

	s := NewCityService(path, filepath.Join(dir, "scene.glb"))
	s.Log = quietLogger()

	if _, err := s.Summary(); err == nil {
		t.Fatal("expected error while summary is missing")
	}

	if err := os.WriteFile(path, []byte(malagaJSON), 0644); err != nil {
		t.Fatal(err)
	}
	summary, err := s.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if summary.City != "Málaga" || summary.Stats.AverageTemp.Unit != "°C" {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Stats.CityScore.Value != "B" {
		t.Errorf("cityScore = %v", summary.Stats.CityScore.Value)
	}
}

func TestCityServiceModelPath(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "scene.glb")
	s := NewCityService("", model)

	if _, ok := s.ModelPath(); ok {
		t.Error("missing model reported as present")
	}
	if err := os.WriteFile(model, []byte("glTF"), 0644); err != nil {
		t.Fatal(err)
	}
	if p, ok := s.ModelPath(); !ok || p != model {
		t.Errorf("ModelPath = %q %v", p, ok)
	}
}

type memoryStore struct {
	periods map[models.Period][]models.TemperatureSample
}

func (m *memoryStore) ReplaceDataset(ctx context.Context, p models.Period, samples []models.TemperatureSample) error {
	m.periods[p] = samples
	return nil
}

func TestDatasetServiceImport(t *testing.T) {
	store := &memoryStore{periods: make(map[models.Period][]models.TemperatureSample)}
	catalog := dataset.NewCatalog(nil)
	s := NewDatasetService(store, nil, catalog, 4, 4)
	s.Log = quietLogger()

	csv := "row,col,temperature\n0,0,20\n0,1,oops\n1,1,40\n9,9,50\n"
	res, err := s.Import(context.Background(), "2024", "7", strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if res.Period != (models.Period{Year: "2024", Month: "07"}) {
		t.Errorf("period = %+v", res.Period)
	}
	if res.Summary.MeanTemperature != 30 || res.Summary.SampleCount != 2 || res.Parse.NaN != 1 || res.Parse.OutOfBounds != 1 {
		t.Errorf("result = %+v", res)
	}
	if months := catalog.Months("2024"); len(months) != 1 || months[0] != "07" {
		t.Errorf("catalog months = %v", months)
	}
	if len(store.periods[res.Period]) != 2 {
		t.Errorf("stored %d samples", len(store.periods[res.Period]))
	}

	if _, err := s.Import(context.Background(), "2024", "07", strings.NewReader("row,col,temperature\n")); err == nil {
		t.Error("expected error for empty dataset")
	}
	if _, err := s.Import(context.Background(), "2024", "13", strings.NewReader(csv)); err == nil {
		t.Error("expected error for invalid month")
	}
}
