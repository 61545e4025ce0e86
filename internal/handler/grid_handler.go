package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/heatgrid-backend-go/internal/service"
	"github.com/jengzang/heatgrid-backend-go/pkg/response"
)

// GridHandler handles HTTP requests for the grid layout and periods
type GridHandler struct {
	service *service.ViewService
}

// NewGridHandler creates a new grid handler
func NewGridHandler(service *service.ViewService) *GridHandler {
	return &GridHandler{service: service}
}

// GetPeriods handles GET /api/v1/periods
func (h *GridHandler) GetPeriods(c *gin.Context) {
	response.Success(c, h.service.Catalog().Available())
}

// GetLayout handles GET /api/v1/grid
func (h *GridHandler) GetLayout(c *gin.Context) {
	proj := h.service.Evaluator().Projection()
	response.Success(c, gin.H{
		"width":       proj.Width,
		"height":      proj.Height,
		"span_x":      proj.SpanX,
		"span_z":      proj.SpanZ,
		"base_y":      proj.BaseY,
		"row_axis":    proj.RowAxis,
		"cell_radius": proj.CellRadius(),
	})
}

// GetCellPosition handles GET /api/v1/grid/cells/:row/:col
func (h *GridHandler) GetCellPosition(c *gin.Context) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		response.BadRequest(c, "Invalid row parameter")
		return
	}
	col, err := strconv.Atoi(c.Param("col"))
	if err != nil {
		response.BadRequest(c, "Invalid col parameter")
		return
	}

	proj := h.service.Evaluator().Projection()
	if !proj.InBounds(row, col) {
		response.NotFound(c, "Cell outside grid")
		return
	}

	p := proj.Position(row, col)
	response.Success(c, gin.H{
		"row": row,
		"col": col,
		"x":   p.X,
		"y":   p.Y,
		"z":   p.Z,
	})
}
