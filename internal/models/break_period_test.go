package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestContainsDateOneOff(t *testing.T) {
	b := BreakPeriod{StartDate: day(2025, 7, 10), EndDate: day(2025, 7, 12)}

	assert.False(t, b.ContainsDate(day(2025, 7, 9)))
	assert.True(t, b.ContainsDate(day(2025, 7, 10)))
	assert.True(t, b.ContainsDate(day(2025, 7, 12)))
	assert.False(t, b.ContainsDate(day(2025, 7, 13)))
	assert.False(t, b.ContainsDate(day(2026, 7, 11)))
}

func TestContainsDateRecurring(t *testing.T) {
	b := BreakPeriod{
		StartDate:   day(2024, 12, 24),
		EndDate:     day(2024, 12, 26),
		IsRecurring: true,
	}

	assert.True(t, b.ContainsDate(day(2025, 12, 25)))
	assert.True(t, b.ContainsDate(day(2030, 12, 24)))
	assert.False(t, b.ContainsDate(day(2025, 12, 27)))
}

func TestContainsDateRecurringAcrossYearEnd(t *testing.T) {
	b := BreakPeriod{
		StartDate:   day(2024, 12, 30),
		EndDate:     day(2025, 1, 2),
		IsRecurring: true,
	}

	assert.True(t, b.ContainsDate(day(2026, 1, 1)))
	assert.True(t, b.ContainsDate(day(2025, 12, 31)))
	assert.False(t, b.ContainsDate(day(2026, 1, 3)))
}

func TestWholeDay(t *testing.T) {
	noon := "12:00"
	one := "13:00"

	assert.True(t, BreakPeriod{}.WholeDay())
	assert.True(t, BreakPeriod{StartTime: &noon}.WholeDay())
	assert.False(t, BreakPeriod{StartTime: &noon, EndTime: &one}.WholeDay())
}
