package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/jengzang/heatgrid-backend-go/internal/service"
	"github.com/jengzang/heatgrid-backend-go/pkg/response"
)

// ViewHandler handles HTTP requests for interactive map views
type ViewHandler struct {
	service *service.ViewService
}

// NewViewHandler creates a new view handler
func NewViewHandler(service *service.ViewService) *ViewHandler {
	return &ViewHandler{service: service}
}

// CreateView handles POST /api/v1/views
func (h *ViewHandler) CreateView(c *gin.Context) {
	response.Created(c, h.service.Create())
}

// GetView handles GET /api/v1/views/:id
func (h *ViewHandler) GetView(c *gin.Context) {
	state, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Success(c, state)
}

// DeleteView handles DELETE /api/v1/views/:id
func (h *ViewHandler) DeleteView(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectPeriod handles PUT /api/v1/views/:id/period
func (h *ViewHandler) SelectPeriod(c *gin.Context) {
	var req models.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid period: "+err.Error())
		return
	}

	state, err := h.service.SelectPeriod(c.Request.Context(), c.Param("id"), req.Year, req.Month)
	if err != nil {
		h.fail(c, err, &state)
		return
	}
	response.Success(c, state)
}

// GetField handles GET /api/v1/views/:id/field
func (h *ViewHandler) GetField(c *gin.Context) {
	resp, err := h.service.Field(c.Param("id"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Success(c, resp)
}

// ListMitigations handles GET /api/v1/views/:id/mitigations
func (h *ViewHandler) ListMitigations(c *gin.Context) {
	state, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Success(c, gin.H{
		"data":  state.Mitigations,
		"count": len(state.Mitigations),
	})
}

// PlaceMitigation handles POST /api/v1/views/:id/mitigations
func (h *ViewHandler) PlaceMitigation(c *gin.Context) {
	var req models.MitigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid mitigation: "+err.Error())
		return
	}

	state, err := h.service.PlaceMitigation(c.Param("id"), req)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Created(c, state)
}

// RemoveMitigation handles DELETE /api/v1/views/:id/mitigations/:index
func (h *ViewHandler) RemoveMitigation(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid index parameter")
		return
	}

	state, err := h.service.RemoveMitigation(c.Param("id"), index)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Success(c, state)
}

// ClearMitigations handles DELETE /api/v1/views/:id/mitigations
func (h *ViewHandler) ClearMitigations(c *gin.Context) {
	state, err := h.service.ClearMitigations(c.Param("id"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Success(c, state)
}

// SetLayers handles PUT /api/v1/views/:id/layers
func (h *ViewHandler) SetLayers(c *gin.Context) {
	var req models.LayersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid layers: "+err.Error())
		return
	}

	state, err := h.service.SetLayers(c.Param("id"), req)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Success(c, state)
}

// fail maps service errors to responses. Load failures still return the
// view state so the client can keep showing the previous grid.
func (h *ViewHandler) fail(c *gin.Context, err error, state *models.ViewState) {
	c.Error(err)

	var data interface{}
	if state != nil && state.ID != "" {
		data = state
	}

	switch {
	case errors.Is(err, service.ErrViewNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidMitigation),
		errors.Is(err, dataset.ErrUnknownYear),
		errors.Is(err, dataset.ErrInvalidPeriod):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrStaleLoad):
		response.ErrorWithData(c, http.StatusConflict, err.Error(), data)
	case errors.Is(err, dataset.ErrNotFound):
		response.ErrorWithData(c, http.StatusNotFound, err.Error(), data)
	default:
		response.ErrorWithData(c, http.StatusBadGateway, err.Error(), data)
	}
}
