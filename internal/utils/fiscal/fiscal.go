// Package fiscal maps calendar dates to fiscal years and periods. The mapping is pure and
// deterministic so the posting path and the query engine always agree on bucketing.
package fiscal

import (
	"fmt"
	"time"
)

// Calendar derives fiscal years and monthly periods from a configurable start month.
// With StartMonth = January the fiscal year equals the calendar year.
type Calendar struct {
	StartMonth time.Month
}

// NewCalendar validates the start month and returns a Calendar.
func NewCalendar(startMonth int) (Calendar, error) {
	if startMonth < 1 || startMonth > 12 {
		return Calendar{}, fmt.Errorf("fiscal year start month must be 1..12, got %d", startMonth)
	}
	return Calendar{StartMonth: time.Month(startMonth)}, nil
}

// Derive returns the fiscal year and period (1..12) containing date. The fiscal year is
// labelled by the calendar year in which it starts.
func (c Calendar) Derive(date time.Time) (fiscalYear, period int) {
	month := int(date.Month())
	start := int(c.StartMonth)
	period = ((month-start)+12)%12 + 1
	fiscalYear = date.Year()
	if month < start {
		fiscalYear--
	}
	return fiscalYear, period
}

// PeriodStart returns the first day of the fiscal period containing date, in date's location.
func (c Calendar) PeriodStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// YearStart returns the first day of the fiscal year containing date, in date's location.
func (c Calendar) YearStart(date time.Time) time.Time {
	fiscalYear, _ := c.Derive(date)
	return time.Date(fiscalYear, c.StartMonth, 1, 0, 0, 0, 0, date.Location())
}
