package utils

import (
	"fmt"
	"time"

	"growshare-backend/internal/domain"
)

const daysPerWeek = 7

// Span is an inclusive calendar range split into whole months and leftover days.
type Span struct {
	Months int
	Days   int
}

// CostBreakdown is the tiered charge for one booking.
type CostBreakdown struct {
	Months     int
	Weeks      int
	Days       int
	MonthsCost int64
	WeeksCost  int64
	DaysCost   int64
	Total      int64
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StaySpan measures start..end with both dates included.
func StaySpan(start, end time.Time) (Span, error) {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if end.Before(start) && !(sy == ey && sm == em && sd == ed) {
		return Span{}, fmt.Errorf("end date must be >= start date")
	}

	months := (ey-sy)*12 + int(em-sm)
	days := ed - sd + 1
	if days < 0 {
		months--
		prev := time.Date(ey, em, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		days += DaysInMonth(prev.Year(), prev.Month())
	}
	return Span{Months: months, Days: days}, nil
}

// CalculateBookingCost prices a stay by the plot's pricing unit.
func CalculateBookingCost(start, end time.Time, plot *domain.Plot) (int64, error) {
	b, err := CalculateBookingCostWithBreakdown(start, end, plot)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

func CalculateBookingCostWithBreakdown(start, end time.Time, plot *domain.Plot) (CostBreakdown, error) {
	span, err := StaySpan(start, end)
	if err != nil {
		return CostBreakdown{}, err
	}

	var b CostBreakdown
	switch plot.PricingUnit {
	case domain.PricingUnitMonth:
		// Any partial month is charged as a full one.
		b.Months = span.Months
		if span.Days > 0 {
			b.Months++
		}
		if b.Months < 1 {
			b.Months = 1
		}
		b.MonthsCost = int64(b.Months) * plot.PricePerMonthCents

	case domain.PricingUnitWeek:
		b.Months = span.Months
		b.Weeks = (span.Days + daysPerWeek - 1) / daysPerWeek
		b.MonthsCost = int64(b.Months) * plot.PricePerMonthCents
		b.WeeksCost = int64(b.Weeks) * plot.PricePerWeekCents

	default:
		b.Months = span.Months
		b.Weeks = span.Days / daysPerWeek
		b.Days = span.Days % daysPerWeek
		b.MonthsCost = int64(b.Months) * plot.PricePerMonthCents
		b.WeeksCost = int64(b.Weeks) * plot.PricePerWeekCents
		b.DaysCost = int64(b.Days) * plot.PricePerDayCents
	}
	b.Total = b.MonthsCost + b.WeeksCost + b.DaysCost
	return b, nil
}
