package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/jengzang/heatgrid-backend-go/internal/stats"
	"github.com/sirupsen/logrus"
)

// ErrEmptyDataset is returned when an import has no valid samples
var ErrEmptyDataset = errors.New("dataset has no valid samples")

// SampleStore persists imported datasets
type SampleStore interface {
	ReplaceDataset(ctx context.Context, period models.Period, samples []models.TemperatureSample) error
}

// ImportResult describes one imported file
type ImportResult struct {
	Period  models.Period           `json:"period"`
	Parse   dataset.ParseStats      `json:"parse"`
	Summary models.AggregateSummary `json:"summary"`
}

// DatasetService imports dataset files into the sample store
type DatasetService struct {
	store   SampleStore
	loader  *dataset.Loader
	catalog *dataset.Catalog
	height  int
	width   int
	Log     logrus.FieldLogger
}

// NewDatasetService creates a new dataset service storing samples that fit
// a height x width grid. loader and catalog may be nil; when set, an imported
// period is dropped from the loader cache and added to the catalog.
func NewDatasetService(store SampleStore, loader *dataset.Loader, catalog *dataset.Catalog, height, width int) *DatasetService {
	return &DatasetService{
		store:   store,
		loader:  loader,
		catalog: catalog,
		height:  height,
		width:   width,
		Log:     logrus.StandardLogger(),
	}
}

// Import parses a dataset file and stores it for the given period
func (s *DatasetService) Import(ctx context.Context, year, month string, r io.Reader) (*ImportResult, error) {
	period, err := dataset.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}

	parsed, st, err := dataset.Parse(r)
	if err != nil {
		return nil, err
	}

	// keep what the loader would keep: in-bounds cells, last duplicate wins
	grid, outOfBounds := models.NewTemperatureGrid(period, s.height, s.width, parsed)
	st.OutOfBounds = outOfBounds
	samples := grid.Samples()
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, period)
	}

	if err := s.store.ReplaceDataset(ctx, period, samples); err != nil {
		return nil, err
	}
	if s.loader != nil {
		s.loader.Invalidate(period)
	}
	if s.catalog != nil {
		s.catalog.Add(period)
	}

	result := &ImportResult{
		Period:  period,
		Parse:   st,
		Summary: stats.Summarize(grid),
	}

	s.Log.WithFields(logrus.Fields{
		"period":        period.String(),
		"samples":       len(samples),
		"skipped":       st.Malformed + st.NaN,
		"out_of_bounds": outOfBounds,
	}).Info("dataset imported")
	return result, nil
}
