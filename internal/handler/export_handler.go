package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/motorhall/garage-api/internal/service"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
	"github.com/motorhall/garage-api/pkg/response"
)

// ExportHandler streams workshop day sheets.
type ExportHandler struct {
	service  *service.ExportService
	location *time.Location
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService, location *time.Location) *ExportHandler {
	if location == nil {
		location = time.UTC
	}
	return &ExportHandler{service: svc, location: location}
}

// DaySheet godoc
// @Summary Download a workshop's day sheet
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Workshop ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /workshops/{id}/day-sheet [get]
func (h *ExportHandler) DaySheet(c *gin.Context) {
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.location)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	format := c.DefaultQuery("format", "csv")

	file, err := h.service.DaySheet(c.Request.Context(), c.Param("id"), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.MIMEType, file.Content)
}
