package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/heatgrid-backend-go/internal/service"
	"github.com/jengzang/heatgrid-backend-go/pkg/response"
)

// CityHandler handles HTTP requests for the city header and 3D model
type CityHandler struct {
	service *service.CityService
}

// NewCityHandler creates a new city handler
func NewCityHandler(service *service.CityService) *CityHandler {
	return &CityHandler{service: service}
}

// GetSummary handles GET /api/v1/city
// A missing summary is not an error for the page: it keeps its loading state.
func (h *CityHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary()
	if err != nil {
		response.Success(c, gin.H{"status": "loading"})
		return
	}
	response.Success(c, gin.H{
		"status":  "ready",
		"summary": summary,
	})
}

// GetModel handles GET /api/v1/city/model
func (h *CityHandler) GetModel(c *gin.Context) {
	path, ok := h.service.ModelPath()
	if !ok {
		response.NotFound(c, "City model not available")
		return
	}
	c.File(path)
}
