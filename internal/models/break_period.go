package models

import "time"

// BreakPeriod is a date-bounded availability exception (holiday, leave).
// When StartTime/EndTime are nil the break blocks the whole day.
// A recurring break repeats every year on the same month/day range.
type BreakPeriod struct {
	ID           string       `db:"id" json:"id"`
	ResourceID   string       `db:"resource_id" json:"resource_id"`
	ResourceKind ResourceKind `db:"resource_kind" json:"resource_kind"`
	StartDate    time.Time    `db:"start_date" json:"start_date"`
	EndDate      time.Time    `db:"end_date" json:"end_date"`
	StartTime    *string      `db:"start_time" json:"start_time,omitempty"`
	EndTime      *string      `db:"end_time" json:"end_time,omitempty"`
	Reason       string       `db:"reason" json:"reason"`
	IsRecurring  bool         `db:"is_recurring" json:"is_recurring"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// WholeDay reports whether the break has no time sub-range.
func (b BreakPeriod) WholeDay() bool {
	return b.StartTime == nil || b.EndTime == nil
}

// ContainsDate reports whether the break applies on the given calendar day.
func (b BreakPeriod) ContainsDate(date time.Time) bool {
	d := truncateToDay(date)
	start := truncateToDay(b.StartDate)
	end := truncateToDay(b.EndDate)

	if !b.IsRecurring {
		return !d.Before(start) && !d.After(end)
	}

	// Recurring breaks repeat yearly; shift the stored range into the
	// candidate's year before comparing.
	yearShift := d.Year() - start.Year()
	start = start.AddDate(yearShift, 0, 0)
	end = end.AddDate(yearShift, 0, 0)
	if d.Before(start) {
		start = start.AddDate(-1, 0, 0)
		end = end.AddDate(-1, 0, 0)
	}
	return !d.Before(start) && !d.After(end)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
