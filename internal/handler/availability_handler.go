package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/internal/service"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
	"github.com/motorhall/garage-api/pkg/response"
)

// AvailabilityHandler serves day and range availability queries.
type AvailabilityHandler struct {
	service  *service.AvailabilityService
	location *time.Location
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService, location *time.Location) *AvailabilityHandler {
	if location == nil {
		location = time.UTC
	}
	return &AvailabilityHandler{service: svc, location: location}
}

func (h *AvailabilityHandler) parseDate(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, key+" is required"))
		return time.Time{}, false
	}
	date, err := time.ParseInLocation("2006-01-02", raw, h.location)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, key+" must be YYYY-MM-DD"))
		return time.Time{}, false
	}
	return date, true
}

// WorkshopDay godoc
// @Summary Get a workshop's slots for a date
// @Tags Availability
// @Produce json
// @Param id path string true "Workshop ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id}/availability [get]
func (h *AvailabilityHandler) WorkshopDay(c *gin.Context) {
	h.day(c, models.ResourceKindWorkshop)
}

// MechanicDay godoc
// @Summary Get a mechanic's slots for a date
// @Tags Availability
// @Produce json
// @Param id path string true "Mechanic ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /mechanics/{id}/availability [get]
func (h *AvailabilityHandler) MechanicDay(c *gin.Context) {
	h.day(c, models.ResourceKindMechanic)
}

func (h *AvailabilityHandler) day(c *gin.Context, kind models.ResourceKind) {
	date, ok := h.parseDate(c, "date")
	if !ok {
		return
	}
	resp, err := h.service.GetDayAvailability(c.Request.Context(), c.Param("id"), kind, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// WorkshopDates godoc
// @Summary List a workshop's bookable dates in a range
// @Tags Availability
// @Produce json
// @Param id path string true "Workshop ID"
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD, max 30 days after start)"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id}/availability/dates [get]
func (h *AvailabilityHandler) WorkshopDates(c *gin.Context) {
	startDate, ok := h.parseDate(c, "start_date")
	if !ok {
		return
	}
	endDate, ok := h.parseDate(c, "end_date")
	if !ok {
		return
	}
	resp, err := h.service.GetAvailableDates(c.Request.Context(), c.Param("id"), models.ResourceKindWorkshop, startDate, endDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
