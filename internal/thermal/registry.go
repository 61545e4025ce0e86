package thermal

import (
	"fmt"

	"github.com/jengzang/heatgrid-backend-go/internal/models"
)

// Registry holds mitigation points in placement order. It has a single
// owner and is not safe for concurrent use.
type Registry struct {
	points []models.MitigationPoint
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Place appends a point and returns its index
func (r *Registry) Place(p models.MitigationPoint) int {
	r.points = append(r.points, p)
	return len(r.points) - 1
}

// Remove deletes the point at index i, keeping the order of the rest
func (r *Registry) Remove(i int) error {
	if i < 0 || i >= len(r.points) {
		return fmt.Errorf("mitigation index %d out of range [0,%d)", i, len(r.points))
	}
	r.points = append(r.points[:i], r.points[i+1:]...)
	return nil
}

// Clear removes every point
func (r *Registry) Clear() {
	r.points = nil
}

// List returns a snapshot of the points
func (r *Registry) List() []models.MitigationPoint {
	out := make([]models.MitigationPoint, len(r.points))
	copy(out, r.points)
	return out
}

// Len returns the number of points
func (r *Registry) Len() int {
	return len(r.points)
}
