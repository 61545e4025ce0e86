package api

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/heatgrid-backend-go/internal/config"
	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/repository"
	"github.com/jengzang/heatgrid-backend-go/internal/service"
	"github.com/jengzang/heatgrid-backend-go/internal/spatial"
	"github.com/jengzang/heatgrid-backend-go/internal/thermal"
)

// BuildServices wires the dataset source, loader, catalog and evaluator
// described by cfg. db may be nil unless the data source is "sqlite", which
// also enables the import endpoint.
func BuildServices(ctx context.Context, cfg *config.Config, db *sql.DB) (Services, error) {
	periods := cfg.Periods

	var (
		source dataset.Source
		repo   *repository.SampleRepository
	)
	if db != nil {
		repo = repository.NewSampleRepository(db)
	}

	switch cfg.DataSource {
	case "file":
		source = dataset.NewFileSource(cfg.DataDir, cfg.DataExt)
	case "http":
		source = dataset.NewHTTPSource(cfg.DataBaseURL, cfg.DataExt, nil)
	case "sqlite":
		if repo == nil {
			return Services{}, fmt.Errorf("data_source sqlite requires a database")
		}
		imported, err := repo.ListPeriods(ctx)
		if err != nil {
			return Services{}, err
		}
		periods = mergePeriods(cfg.Periods, imported)
		source = repo
	default:
		return Services{}, fmt.Errorf("unknown data_source %q", cfg.DataSource)
	}

	loader := dataset.NewLoader(source, cfg.Grid.Height, cfg.Grid.Width, cfg.CacheSize)
	catalog := dataset.NewCatalog(periods)
	evaluator := thermal.NewEvaluator(
		spatial.NewProjection(cfg.Grid),
		thermal.NewFalloff(cfg.Thermal.Falloff),
		cfg.Thermal.MinTemp,
		cfg.Thermal.MaxTemp,
	)

	svc := Services{
		Views:  service.NewViewService(loader, catalog, evaluator),
		City:   service.NewCityService(cfg.CitySummary, cfg.CityModel),
		Loader: loader,
	}
	if cfg.DataSource == "sqlite" {
		svc.Datasets = service.NewDatasetService(repo, loader, catalog, cfg.Grid.Height, cfg.Grid.Width)
	}
	return svc, nil
}

func mergePeriods(a, b map[string][]string) map[string][]string {
	out := make(map[string][]string, len(a)+len(b))
	for _, m := range []map[string][]string{a, b} {
		for year, months := range m {
			out[year] = append(out[year], months...)
		}
	}
	return out
}
