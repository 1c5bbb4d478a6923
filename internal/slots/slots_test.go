package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorhall/garage-api/internal/models"
)

func window(start, end string, duration int) models.ScheduleWindow {
	return models.ScheduleWindow{
		ResourceID:          "w1",
		ResourceKind:        models.ResourceKindWorkshop,
		Weekday:             2,
		StartTime:           start,
		EndTime:             end,
		IsAvailable:         true,
		SlotDurationMinutes: duration,
	}
}

func strPtr(s string) *string { return &s }

func TestComputeKeepsOnlyFittingCandidates(t *testing.T) {
	cands, err := Compute(window("08:00", "10:00", 60), 60)
	require.NoError(t, err)

	// 08:00, 08:30, 09:00 fit; 09:30+60 would overrun 10:00.
	assert.Equal(t, []int{480, 510, 540}, cands)
}

func TestComputeThirtyMinuteGranularityRegardlessOfDuration(t *testing.T) {
	cands, err := Compute(window("08:00", "12:00", 120), 120)
	require.NoError(t, err)

	assert.Equal(t, []int{480, 510, 540, 570, 600}, cands)
}

func TestComputeClosedWindow(t *testing.T) {
	w := window("08:00", "17:00", 60)
	w.IsAvailable = false

	cands, err := Compute(w, 60)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestComputeRejectsInvertedWindow(t *testing.T) {
	_, err := Compute(window("17:00", "08:00", 60), 60)
	require.Error(t, err)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	_, err = ParseClock("24:00")
	require.Error(t, err)
	_, err = ParseClock("nope")
	require.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:00", FormatClock(480))
	assert.Equal(t, "13:05", FormatClock(785))
}

func TestFilterBreaksWholeDay(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	breaks := []models.BreakPeriod{{
		ResourceID:   "m1",
		ResourceKind: models.ResourceKindMechanic,
		StartDate:    date,
		EndDate:      date,
		Reason:       "leave",
	}}

	kept := FilterBreaks([]int{480, 540, 600}, 60, breaks, date)
	assert.Empty(t, kept)
}

func TestFilterBreaksTimeSubRange(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	breaks := []models.BreakPeriod{{
		StartDate: date,
		EndDate:   date,
		StartTime: strPtr("12:00"),
		EndTime:   strPtr("13:00"),
	}}

	// 11:00 slot of 60m ends exactly at the break start: adjacency allowed.
	kept := FilterBreaks([]int{660, 690, 720, 780}, 60, breaks, date)
	assert.Equal(t, []int{660, 780}, kept)
}

func TestFilterBreaksIgnoresOtherDates(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	breaks := []models.BreakPeriod{{
		StartDate: date.AddDate(0, 0, 1),
		EndDate:   date.AddDate(0, 0, 3),
	}}

	kept := FilterBreaks([]int{480}, 60, breaks, date)
	assert.Equal(t, []int{480}, kept)
}

func TestFilterBreaksRecurringYearly(t *testing.T) {
	breaks := []models.BreakPeriod{{
		StartDate:   time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC),
		IsRecurring: true,
	}}

	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	kept := FilterBreaks([]int{480, 540}, 60, breaks, date)
	assert.Empty(t, kept)
}

func TestFilterConflictsAdjacencyAllowed(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	bookings := []models.Booking{{
		ResourceID: "m1",
		StartAt:    time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
		Status:     models.BookingStatusScheduled,
	}}

	// 08:00 ends at 09:00 (adjacent, kept), 09:00 and 09:30 overlap,
	// 10:00 starts when the booking ends (adjacent, kept).
	kept := FilterConflicts([]int{480, 540, 570, 600}, 60, bookings, date, time.UTC)
	assert.Equal(t, []int{480, 600}, kept)
}

func TestFilterConflictsCompletedBookingDoesNotBlock(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	bookings := []models.Booking{{
		StartAt: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
		Status:  models.BookingStatusCompleted,
	}}

	kept := FilterConflicts([]int{540}, 60, bookings, date, time.UTC)
	assert.Equal(t, []int{540}, kept)
}

func TestFilterConflictsTimezoneNormalization(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)
	// Stored in UTC: 07:00Z-08:00Z equals 09:00-10:00 Berlin (CEST).
	bookings := []models.Booking{{
		StartAt: time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
		Status:  models.BookingStatusScheduled,
	}}

	kept := FilterConflicts([]int{540, 600}, 60, bookings, date, loc)
	assert.Equal(t, []int{600}, kept)
}

func TestOverlapsHalfOpen(t *testing.T) {
	assert.True(t, Overlaps(480, 540, 500, 520))
	assert.False(t, Overlaps(480, 540, 540, 600))
	assert.False(t, Overlaps(540, 600, 480, 540))
}
