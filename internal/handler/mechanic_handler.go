package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/motorhall/garage-api/internal/service"
	"github.com/motorhall/garage-api/internal/slots"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
	"github.com/motorhall/garage-api/pkg/response"
)

// MechanicHandler serves mechanic matching queries.
type MechanicHandler struct {
	service         *service.MatcherService
	location        *time.Location
	defaultDuration int
}

// NewMechanicHandler constructs handler.
func NewMechanicHandler(svc *service.MatcherService, location *time.Location, defaultDuration int) *MechanicHandler {
	if location == nil {
		location = time.UTC
	}
	if defaultDuration <= 0 {
		defaultDuration = 120
	}
	return &MechanicHandler{service: svc, location: location, defaultDuration: defaultDuration}
}

func (h *MechanicHandler) parseDuration(c *gin.Context) (int, bool) {
	raw := c.Query("duration")
	if raw == "" {
		return h.defaultDuration, true
	}
	duration, err := strconv.Atoi(raw)
	if err != nil || duration <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "duration must be a positive number of minutes"))
		return 0, false
	}
	return duration, true
}

// Availability godoc
// @Summary List a workshop's mechanics with their availability for a slot
// @Tags Mechanics
// @Produce json
// @Param id path string true "Workshop ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param time query string true "Slot start (HH:MM)"
// @Param duration query int false "Duration in minutes"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id}/mechanics/availability [get]
func (h *MechanicHandler) Availability(c *gin.Context) {
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.location)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	startMinute, err := slots.ParseClock(c.Query("time"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "time must be HH:MM"))
		return
	}
	duration, ok := h.parseDuration(c)
	if !ok {
		return
	}

	resp, err := h.service.GetAvailableMechanics(c.Request.Context(), c.Param("id"), date, startMinute, duration)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// TimeSlots godoc
// @Summary Map a workshop's open slots to the mechanics free in them
// @Tags Mechanics
// @Produce json
// @Param id path string true "Workshop ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration query int false "Duration in minutes"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id}/mechanics/slots [get]
func (h *MechanicHandler) TimeSlots(c *gin.Context) {
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.location)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	duration, ok := h.parseDuration(c)
	if !ok {
		return
	}

	resp, err := h.service.GetAvailableTimeSlots(c.Request.Context(), c.Param("id"), date, duration)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
