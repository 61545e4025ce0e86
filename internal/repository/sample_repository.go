package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jengzang/heatgrid-backend-go/internal/database"
	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
)

// SampleRepository handles database operations for imported datasets.
// It also serves as a dataset.Source.
type SampleRepository struct {
	db *sql.DB
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db *sql.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

var _ dataset.Source = (*SampleRepository)(nil)

// ReplaceDataset stores the samples of a period, replacing any previous import
func (r *SampleRepository) ReplaceDataset(ctx context.Context, period models.Period, samples []models.TemperatureSample) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM temperature_samples WHERE year = ? AND month = ?",
			period.Year, period.Month); err != nil {
			return fmt.Errorf("failed to clear samples: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO temperature_samples
			(year, month, row_idx, col_idx, value) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		cells := make(map[models.CellKey]struct{}, len(samples))
		for _, s := range samples {
			if _, err := stmt.ExecContext(ctx, period.Year, period.Month, s.Row, s.Col, s.Value); err != nil {
				return fmt.Errorf("failed to insert sample (%d,%d): %w", s.Row, s.Col, err)
			}
			cells[models.CellKey{Row: s.Row, Col: s.Col}] = struct{}{}
		}

		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO datasets
			(year, month, sample_count, imported_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
			period.Year, period.Month, len(cells)); err != nil {
			return fmt.Errorf("failed to record dataset: %w", err)
		}
		return nil
	})
}

// ListPeriods returns the imported months per year
func (r *SampleRepository) ListPeriods(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT year, month FROM datasets ORDER BY year, month")
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	periods := make(map[string][]string)
	for rows.Next() {
		var year, month string
		if err := rows.Scan(&year, &month); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		periods[year] = append(periods[year], month)
	}
	return periods, rows.Err()
}

// GetSamples retrieves the samples of a period in row-major order
func (r *SampleRepository) GetSamples(ctx context.Context, period models.Period) ([]models.TemperatureSample, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT sample_count FROM datasets WHERE year = ? AND month = ?",
		period.Year, period.Month).Scan(&count)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", dataset.ErrNotFound, period)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT row_idx, col_idx, value FROM temperature_samples
		WHERE year = ? AND month = ? ORDER BY row_idx, col_idx`, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	samples := make([]models.TemperatureSample, 0, count)
	for rows.Next() {
		var s models.TemperatureSample
		if err := rows.Scan(&s.Row, &s.Col, &s.Value); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// Fetch renders a stored dataset in the same CSV form as the static files
func (r *SampleRepository) Fetch(ctx context.Context, period models.Period) (io.ReadCloser, error) {
	samples, err := r.GetSamples(ctx, period)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"row", "col", "temperature"}); err != nil {
		return nil, err
	}
	for _, s := range samples {
		record := []string{
			strconv.Itoa(s.Row),
			strconv.Itoa(s.Col),
			strconv.FormatFloat(s.Value, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to encode sample: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}

	return io.NopCloser(&buf), nil
}
