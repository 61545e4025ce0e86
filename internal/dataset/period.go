package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jengzang/heatgrid-backend-go/internal/models"
)

var (
	// ErrUnknownYear is returned when no data exists for a year
	ErrUnknownYear = errors.New("no datasets for year")
	// ErrInvalidPeriod is returned for malformed years or months
	ErrInvalidPeriod = errors.New("invalid period")
)

// NewPeriod normalises a year and month into a Period. Months may be given
// with or without the leading zero.
func NewPeriod(year, month string) (models.Period, error) {
	y, err := normalizeYear(year)
	if err != nil {
		return models.Period{}, err
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return models.Period{}, fmt.Errorf("%w: month %q", ErrInvalidPeriod, month)
	}
	return models.Period{Year: y, Month: fmt.Sprintf("%02d", m)}, nil
}

// normalizeYear turns " 2024", "02024" and "2024" into "2024"
func normalizeYear(year string) (string, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1000 || y > 9999 {
		return "", fmt.Errorf("%w: year %q", ErrInvalidPeriod, year)
	}
	return fmt.Sprintf("%04d", y), nil
}

// FileName returns data_<MM>_<YYYY>.<ext>
func FileName(p models.Period, ext string) string {
	return fmt.Sprintf("data_%s_%s.%s", p.Month, p.Year, ext)
}

// Catalog lists the months that have data for each year
type Catalog struct {
	mu     sync.RWMutex
	months map[string][]string
}

// NewCatalog builds a catalog from a year -> months table. Months are
// normalised and sorted; years with no valid months are left out.
func NewCatalog(table map[string][]string) *Catalog {
	c := &Catalog{months: make(map[string][]string)}
	for year, months := range table {
		var valid []string
		for _, m := range months {
			p, err := NewPeriod(year, m)
			if err != nil {
				continue
			}
			valid = append(valid, p.Month)
		}
		if len(valid) == 0 {
			continue
		}
		y, _ := normalizeYear(year) // NewPeriod accepted it above
		valid = append(valid, c.months[y]...)
		sort.Strings(valid)
		c.months[y] = dedupe(valid)
	}
	return c
}

// Years returns the years with data in ascending order
func (c *Catalog) Years() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	years := make([]string, 0, len(c.months))
	for y := range c.months {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// Months returns the available months of a year
func (c *Catalog) Months(year string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.months[year]...)
}

// Available returns the full table
func (c *Catalog) Available() models.AvailablePeriods {
	years := c.Years()
	out := models.AvailablePeriods{
		Years:  years,
		Months: make(map[string][]string, len(years)),
	}
	for _, y := range years {
		out.Months[y] = c.Months(y)
	}
	return out
}

// Resolve returns the requested period if it has data. If the month has no
// data for that year (or is empty), the first available month is used.
func (c *Catalog) Resolve(year, month string) (models.Period, error) {
	y, err := normalizeYear(year)
	if err != nil {
		return models.Period{}, fmt.Errorf("%w %s", ErrUnknownYear, year)
	}
	year = y

	c.mu.RLock()
	defer c.mu.RUnlock()
	months, ok := c.months[year]
	if !ok {
		return models.Period{}, fmt.Errorf("%w %s", ErrUnknownYear, year)
	}

	if month != "" {
		p, err := NewPeriod(year, month)
		if err == nil {
			for _, m := range months {
				if m == p.Month {
					return p, nil
				}
			}
		}
	}
	return models.Period{Year: year, Month: months[0]}, nil
}

// Add registers a period, e.g. after an import
func (c *Catalog) Add(p models.Period) {
	c.mu.Lock()
	defer c.mu.Unlock()
	months := append(c.months[p.Year], p.Month)
	sort.Strings(months)
	c.months[p.Year] = dedupe(months)
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i > 0 && s == sorted[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
