package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/motorhall/garage-api/internal/dto"
	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/internal/service"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
	"github.com/motorhall/garage-api/pkg/response"
)

// ScheduleHandler manages weekly windows and break periods.
type ScheduleHandler struct {
	service *service.ScheduleAdminService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleAdminService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

func resourceFromQuery(c *gin.Context) (string, models.ResourceKind, bool) {
	resourceID := c.Query("resource_id")
	kind := models.ResourceKind(strings.ToUpper(c.Query("resource_kind")))
	if resourceID == "" || (kind != models.ResourceKindWorkshop && kind != models.ResourceKindMechanic) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "resource_id and resource_kind (WORKSHOP|MECHANIC) are required"))
		return "", "", false
	}
	return resourceID, kind, true
}

// Get godoc
// @Summary Get a resource's weekly schedule and breaks
// @Tags Schedules
// @Produce json
// @Param resource_id query string true "Resource ID"
// @Param resource_kind query string true "WORKSHOP or MECHANIC"
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	resourceID, kind, ok := resourceFromQuery(c)
	if !ok {
		return
	}
	resp, err := h.service.GetSchedule(c.Request.Context(), resourceID, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// UpsertWindow godoc
// @Summary Create or replace a weekly window
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.UpsertScheduleWindowRequest true "Window payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/windows [put]
func (h *ScheduleHandler) UpsertWindow(c *gin.Context) {
	var req dto.UpsertScheduleWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	window, err := h.service.UpsertWindow(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, window, nil)
}

// DeleteWindow godoc
// @Summary Delete a weekly window
// @Tags Schedules
// @Produce json
// @Param id path string true "Window ID"
// @Param resource_id query string true "Resource ID"
// @Param resource_kind query string true "WORKSHOP or MECHANIC"
// @Success 204
// @Router /schedule/windows/{id} [delete]
func (h *ScheduleHandler) DeleteWindow(c *gin.Context) {
	resourceID, kind, ok := resourceFromQuery(c)
	if !ok {
		return
	}
	if err := h.service.DeleteWindow(c.Request.Context(), c.Param("id"), resourceID, kind); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateBreak godoc
// @Summary Add a break period
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateBreakPeriodRequest true "Break payload"
// @Success 201 {object} response.Envelope
// @Router /schedule/breaks [post]
func (h *ScheduleHandler) CreateBreak(c *gin.Context) {
	var req dto.CreateBreakPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	breakPeriod, err := h.service.CreateBreak(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, breakPeriod)
}

// DeleteBreak godoc
// @Summary Delete a break period
// @Tags Schedules
// @Produce json
// @Param id path string true "Break ID"
// @Param resource_id query string true "Resource ID"
// @Param resource_kind query string true "WORKSHOP or MECHANIC"
// @Success 204
// @Router /schedule/breaks/{id} [delete]
func (h *ScheduleHandler) DeleteBreak(c *gin.Context) {
	resourceID, kind, ok := resourceFromQuery(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBreak(c.Request.Context(), c.Param("id"), resourceID, kind); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
