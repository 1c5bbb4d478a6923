package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motorhall/garage-api/internal/dto"
	"github.com/motorhall/garage-api/internal/service"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
	"github.com/motorhall/garage-api/pkg/response"
)

// AppointmentHandler serves appointment booking and lookup.
type AppointmentHandler struct {
	service *service.BookingService
}

// NewAppointmentHandler constructs handler.
func NewAppointmentHandler(svc *service.BookingService) *AppointmentHandler {
	return &AppointmentHandler{service: svc}
}

// Create godoc
// @Summary Book an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAppointmentRequest true "Appointment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Slot no longer available"
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.service.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Get godoc
// @Summary Get an appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	appointment, err := h.service.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointment, nil)
}
