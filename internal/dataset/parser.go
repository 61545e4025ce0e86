package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jengzang/heatgrid-backend-go/internal/models"
)

// ParseStats counts what the parser kept and skipped
type ParseStats struct {
	Lines     int `json:"lines"` // data lines, header excluded
	Samples   int `json:"samples"`
	Malformed int `json:"malformed"` // fewer than 3 fields or bad indices
	NaN       int `json:"non_numeric"`

	// OutOfBounds is filled by callers that check samples against a grid
	OutOfBounds int `json:"out_of_bounds"`
}

// Parse reads a comma-delimited dataset. The first line is a header and is
// discarded; each following line starts with row, column and temperature,
// extra fields are ignored. Malformed lines are skipped.
func Parse(r io.Reader) ([]models.TemperatureSample, ParseStats, error) {
	var (
		samples []models.TemperatureSample
		st      ParseStats
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		st.Lines++

		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			st.Malformed++
			continue
		}

		row, err1 := strconv.Atoi(strings.TrimSpace(fields[0]))
		col, err2 := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err1 != nil || err2 != nil {
			st.Malformed++
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil || !isFinite(value) {
			st.NaN++
			continue
		}

		samples = append(samples, models.TemperatureSample{Row: row, Col: col, Value: value})
		st.Samples++
	}
	if err := scanner.Err(); err != nil {
		return nil, st, fmt.Errorf("failed to read dataset: %w", err)
	}

	return samples, st, nil
}
