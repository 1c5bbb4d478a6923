package dto

import "github.com/motorhall/garage-api/internal/models"

// CreateAppointmentRequest books a slot at a workshop. Time values are
// wall-clock strings in the workshop's timezone; Duration falls back
// to the configured default when omitted.
type CreateAppointmentRequest struct {
	WorkshopID   string  `json:"workshop_id" validate:"required"`
	CustomerName string  `json:"customer_name" validate:"required"`
	VehicleInfo  *string `json:"vehicle_info"`
	Date         string  `json:"date" validate:"required"`
	Time         string  `json:"time" validate:"required"`
	Duration     int     `json:"duration"`
	MechanicID   *string `json:"mechanic_id"`
	Notes        *string `json:"notes"`
}

// AppointmentResponse is the booked appointment as returned to clients.
type AppointmentResponse struct {
	Appointment models.Appointment `json:"appointment"`
	MechanicID  string             `json:"mechanic_id"`
}
