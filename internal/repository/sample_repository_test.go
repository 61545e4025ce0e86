package repository

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/jengzang/heatgrid-backend-go/internal/database"
	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/kr/pretty"
)

func openTestRepo(t *testing.T) *SampleRepository {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSampleRepository(db)
}

func TestSampleRepository(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	july := models.Period{Year: "2024", Month: "07"}

	first := []models.TemperatureSample{
		{Row: 0, Col: 0, Value: 20},
		{Row: 0, Col: 1, Value: 30},
	}
	if err := repo.ReplaceDataset(ctx, july, first); err != nil {
		t.Fatal(err)
	}

	second := []models.TemperatureSample{
		{Row: 1, Col: 0, Value: 40},
		{Row: 0, Col: 0, Value: 20},
		{Row: 0, Col: 0, Value: 22.5}, // last write wins
	}
	if err := repo.ReplaceDataset(ctx, july, second); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetSamples(ctx, july)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.TemperatureSample{
		{Row: 0, Col: 0, Value: 22.5},
		{Row: 1, Col: 0, Value: 40},
	}
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("samples differ: %v", diff)
	}

	periods, err := repo.ListPeriods(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(periods, map[string][]string{"2024": {"07"}}); len(diff) > 0 {
		t.Errorf("periods differ: %v", diff)
	}

	if _, err := repo.GetSamples(ctx, models.Period{Year: "2024", Month: "08"}); !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("missing period err = %v", err)
	}
}

func TestSampleRepositoryAsSource(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	july := models.Period{Year: "2024", Month: "07"}

	if err := repo.ReplaceDataset(ctx, july, []models.TemperatureSample{
		{Row: 0, Col: 0, Value: 20.25},
		{Row: 1, Col: 1, Value: 40},
	}); err != nil {
		t.Fatal(err)
	}

	rc, err := repo.Fetch(ctx, july)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "row,col,temperature\n0,0,20.25\n1,1,40\n" {
		t.Errorf("unexpected csv %q", body)
	}

	loader := dataset.NewLoader(repo, 2, 2, 0)
	grid, err := loader.Load(ctx, july)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := grid.Value(0, 0); !ok || v != 20.25 {
		t.Errorf("grid(0,0) = %v %v", v, ok)
	}
}
