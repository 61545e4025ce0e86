package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/service"
	"github.com/jengzang/heatgrid-backend-go/pkg/response"
)

// DatasetHandler handles dataset imports
type DatasetHandler struct {
	service *service.DatasetService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// Import handles POST /api/v1/datasets/import (multipart: file, year, month)
func (h *DatasetHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Unreadable file")
		return
	}
	defer f.Close()

	result, err := h.service.Import(c.Request.Context(), c.PostForm("year"), c.PostForm("month"), f)
	if err != nil {
		c.Error(err)
		if errors.Is(err, dataset.ErrInvalidPeriod) || errors.Is(err, service.ErrEmptyDataset) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Created(c, result)
}
