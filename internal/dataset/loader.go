package dataset

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Loader fetches and parses datasets into temperature grids. Parsed grids
// are immutable, so they can be cached per period and shared between views.
type Loader struct {
	source Source
	height int
	width  int
	Log    logrus.FieldLogger

	mu    sync.Mutex
	cache *lru.Cache
}

// NewLoader creates a loader producing grids of the given dimensions.
// cacheSize <= 0 disables caching.
func NewLoader(source Source, height, width, cacheSize int) *Loader {
	l := &Loader{
		source: source,
		height: height,
		width:  width,
		Log:    logrus.StandardLogger(),
	}
	if cacheSize > 0 {
		l.cache = lru.New(cacheSize)
	}
	return l
}

// Load returns the grid of a period
func (l *Loader) Load(ctx context.Context, period models.Period) (*models.TemperatureGrid, error) {
	if g, ok := l.cached(period); ok {
		return g, nil
	}

	rc, err := l.source.Fetch(ctx, period)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	samples, st, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", period, err)
	}

	grid, outOfBounds := models.NewTemperatureGrid(period, l.height, l.width, samples)

	l.Log.WithFields(logrus.Fields{
		"period":        period.String(),
		"lines":         st.Lines,
		"samples":       grid.Len(),
		"malformed":     st.Malformed,
		"non_numeric":   st.NaN,
		"out_of_bounds": outOfBounds,
	}).Info("dataset loaded")

	l.store(period, grid)
	return grid, nil
}

func (l *Loader) cached(period models.Period) (*models.TemperatureGrid, bool) {
	if l.cache == nil {
		return nil, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.cache.Get(period)
	if !ok {
		return nil, false
	}
	return v.(*models.TemperatureGrid), true
}

func (l *Loader) store(period models.Period, grid *models.TemperatureGrid) {
	if l.cache == nil {
		return
	}
	l.mu.Lock()
	l.cache.Add(period, grid)
	l.mu.Unlock()
}

// Invalidate drops a cached period, e.g. after a new import
func (l *Loader) Invalidate(period models.Period) {
	if l.cache == nil {
		return
	}
	l.mu.Lock()
	l.cache.Remove(period)
	l.mu.Unlock()
}
