package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/domain/export"
)

// ExportHandler serves downloadable reports
type ExportHandler struct {
	service export.Service
}

// NewExportHandler creates a new ExportHandler instance
func NewExportHandler(service export.Service) *ExportHandler {
	return &ExportHandler{service: service}
}

// AssignmentReport streams the assignment workbook as an .xlsx download
func (h *ExportHandler) AssignmentReport(c *gin.Context) {
	buf, filename, err := h.service.AssignmentReport(c.Request.Context())
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, export.ErrNoAssignments) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
