package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/jengzang/heatgrid-backend-go/internal/stats"
	"github.com/jengzang/heatgrid-backend-go/internal/thermal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrViewNotFound is returned for unknown or torn-down views
	ErrViewNotFound = errors.New("view not found")
	// ErrStaleLoad is returned when a newer period selection superseded a load
	ErrStaleLoad = errors.New("superseded by a newer period selection")
	// ErrInvalidMitigation is returned for placements without a usable position
	ErrInvalidMitigation = errors.New("invalid mitigation placement")
)

// GridLoader loads the temperature grid of a period
type GridLoader interface {
	Load(ctx context.Context, period models.Period) (*models.TemperatureGrid, error)
}

// view is the state owned by one visitor's map
type view struct {
	mu sync.Mutex

	id       string
	period   *models.Period
	grid     *models.TemperatureGrid
	summary  *models.AggregateSummary
	registry *thermal.Registry
	layers   models.Layers
	status   models.LoadStatus
	lastErr  string

	// generation increases with every period selection; a load only applies
	// if the generation it started with is still current
	generation uint64

	field *models.ThermalField // last evaluation, nil when stale
}

func (v *view) state() models.ViewState {
	s := models.ViewState{
		ID:          v.id,
		Status:      v.status,
		Error:       v.lastErr,
		Layers:      v.layers,
		Mitigations: v.registry.List(),
	}
	if v.period != nil {
		p := *v.period
		s.Period = &p
	}
	if v.summary != nil {
		sum := *v.summary
		s.Summary = &sum
	}
	return s
}

// ViewService handles business logic for interactive map views
type ViewService struct {
	loader    GridLoader
	catalog   *dataset.Catalog
	evaluator *thermal.Evaluator
	Log       logrus.FieldLogger

	mu    sync.RWMutex
	views map[string]*view
}

// NewViewService creates a new view service
func NewViewService(loader GridLoader, catalog *dataset.Catalog, evaluator *thermal.Evaluator) *ViewService {
	return &ViewService{
		loader:    loader,
		catalog:   catalog,
		evaluator: evaluator,
		Log:       logrus.StandardLogger(),
		views:     make(map[string]*view),
	}
}

// Catalog returns the available periods
func (s *ViewService) Catalog() *dataset.Catalog {
	return s.catalog
}

// Evaluator returns the thermal evaluator shared by all views
func (s *ViewService) Evaluator() *thermal.Evaluator {
	return s.evaluator
}

// Create starts a new view with both layers visible and no period loaded
func (s *ViewService) Create() models.ViewState {
	v := &view{
		id:       uuid.NewString(),
		registry: thermal.NewRegistry(),
		layers:   models.Layers{Model: true, Overlay: true},
		status:   models.LoadIdle,
	}

	s.mu.Lock()
	s.views[v.id] = v
	s.mu.Unlock()

	s.Log.WithField("view", v.id).Debug("view created")
	return v.state()
}

// Delete tears a view down, discarding all of its state
func (s *ViewService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[id]; !ok {
		return ErrViewNotFound
	}
	delete(s.views, id)
	return nil
}

// Count returns the number of live views
func (s *ViewService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

func (s *ViewService) get(id string) (*view, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	return v, nil
}

// Get returns the state of a view
func (s *ViewService) Get(id string) (models.ViewState, error) {
	v, err := s.get(id)
	if err != nil {
		return models.ViewState{}, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state(), nil
}

// SelectPeriod loads the dataset of a period into a view. The fetch runs
// without holding the view, so a second selection may start meanwhile; the
// result of an older selection is then discarded with ErrStaleLoad. On a
// failed load the previous grid is kept and the view reports the error.
func (s *ViewService) SelectPeriod(ctx context.Context, id, year, month string) (models.ViewState, error) {
	v, err := s.get(id)
	if err != nil {
		return models.ViewState{}, err
	}

	period, err := s.catalog.Resolve(year, month)
	if err != nil {
		return models.ViewState{}, err
	}

	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.status = models.LoadPending
	v.lastErr = ""
	v.mu.Unlock()

	grid, loadErr := s.loader.Load(ctx, period)

	v.mu.Lock()
	defer v.mu.Unlock()

	log := s.Log.WithFields(logrus.Fields{"view": id, "period": period.String()})
	if v.generation != gen {
		log.Debug("discarding stale dataset load")
		return v.state(), ErrStaleLoad
	}

	if loadErr != nil {
		log.WithError(loadErr).Warn("dataset load failed, keeping previous grid")
		v.status = models.LoadFailed
		v.lastErr = loadErr.Error()
		return v.state(), fmt.Errorf("failed to load %s: %w", period, loadErr)
	}

	summary := stats.Summarize(grid)
	v.grid = grid
	v.period = &period
	v.summary = &summary
	v.status = models.LoadReady
	v.field = nil

	log.WithField("mean", summary.MeanTemperature).Info("period selected")
	return v.state(), nil
}

// Field evaluates the thermal field of a view. The evaluation is reused
// until the grid or the mitigation points change.
func (s *ViewService) Field(id string) (models.FieldResponse, error) {
	v, err := s.get(id)
	if err != nil {
		return models.FieldResponse{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.field == nil {
		v.field = s.evaluator.Evaluate(v.grid, v.registry.List())
	}
	return models.FieldResponse{View: v.state(), Field: v.field}, nil
}

// PlaceMitigation adds a point at explicit coordinates or at a cell
func (s *ViewService) PlaceMitigation(id string, req models.MitigationRequest) (models.ViewState, error) {
	point, err := s.resolvePlacement(req)
	if err != nil {
		return models.ViewState{}, err
	}

	v, err := s.get(id)
	if err != nil {
		return models.ViewState{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.registry.Place(point)
	v.field = nil
	return v.state(), nil
}

func (s *ViewService) resolvePlacement(req models.MitigationRequest) (models.MitigationPoint, error) {
	if req.Row != nil || req.Col != nil {
		if req.Row == nil || req.Col == nil {
			return models.MitigationPoint{}, fmt.Errorf("%w: row and col must be given together", ErrInvalidMitigation)
		}
		proj := s.evaluator.Projection()
		if !proj.InBounds(*req.Row, *req.Col) {
			return models.MitigationPoint{}, fmt.Errorf("%w: cell (%d,%d) outside grid", ErrInvalidMitigation, *req.Row, *req.Col)
		}
		p := proj.Position(*req.Row, *req.Col)
		return models.MitigationPoint{X: p.X, Y: p.Y, Z: p.Z}, nil
	}

	if req.X == nil || req.Z == nil {
		return models.MitigationPoint{}, fmt.Errorf("%w: x and z are required", ErrInvalidMitigation)
	}
	point := models.MitigationPoint{X: *req.X, Y: s.evaluator.Projection().BaseY, Z: *req.Z}
	if req.Y != nil {
		point.Y = *req.Y
	}
	return point, nil
}

// RemoveMitigation deletes the point at index i
func (s *ViewService) RemoveMitigation(id string, i int) (models.ViewState, error) {
	v, err := s.get(id)
	if err != nil {
		return models.ViewState{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.registry.Remove(i); err != nil {
		return models.ViewState{}, fmt.Errorf("%w: %v", ErrInvalidMitigation, err)
	}
	v.field = nil
	return v.state(), nil
}

// ClearMitigations removes every point of a view
func (s *ViewService) ClearMitigations(id string) (models.ViewState, error) {
	v, err := s.get(id)
	if err != nil {
		return models.ViewState{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.registry.Clear()
	v.field = nil
	return v.state(), nil
}

// SetLayers updates the model and overlay toggles
func (s *ViewService) SetLayers(id string, req models.LayersRequest) (models.ViewState, error) {
	v, err := s.get(id)
	if err != nil {
		return models.ViewState{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if req.Model != nil {
		v.layers.Model = *req.Model
	}
	if req.Overlay != nil {
		v.layers.Overlay = *req.Overlay
	}
	return v.state(), nil
}
