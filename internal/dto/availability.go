package dto

// WorkingHours echoes the queried window bounds for client display.
type WorkingHours struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	SlotDuration int    `json:"slot_duration"`
}

// DayAvailabilityResponse answers a single-resource day query.
// Closed days are a well-formed response, never an error.
type DayAvailabilityResponse struct {
	Available    bool          `json:"available"`
	Message      string        `json:"message"`
	Slots        []string      `json:"slots"`
	WorkingHours *WorkingHours `json:"working_hours,omitempty"`
}

// AvailableDatesResponse lists the dates in a range with at least one
// open slot.
type AvailableDatesResponse struct {
	AvailableDates []string `json:"available_dates"`
}

// MechanicAvailability is one row of a mechanic-matching response.
type MechanicAvailability struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	IsAvailable bool   `json:"is_available"`
}

// MechanicMatchResponse answers "which mechanics are free at T".
type MechanicMatchResponse struct {
	Mechanics      []MechanicAvailability `json:"mechanics"`
	AvailableCount int                    `json:"available_count"`
	TotalCount     int                    `json:"total_count"`
	Date           string                 `json:"date"`
	Time           string                 `json:"time,omitempty"`
}

// TimeSlotMatchResponse maps each open slot to the mechanics free in it.
type TimeSlotMatchResponse struct {
	Date     string              `json:"date"`
	Duration int                 `json:"duration"`
	Slots    map[string][]string `json:"slots"`
}
