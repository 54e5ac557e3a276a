package domain

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysUntilStart counts whole days from now to start, rounding up so that any
// partial day counts as a full one.
func DaysUntilStart(start, now time.Time) int {
	return int(math.Ceil(float64(start.Sub(now)) / float64(day)))
}

// RefundPercentage maps the lead time before start to the refund tier.
func RefundPercentage(start, now time.Time) int {
	days := DaysUntilStart(start, now)
	switch {
	case days >= 7:
		return 100
	case days >= 3:
		return 50
	default:
		return 0
	}
}

// RefundAmount applies percentage to amount in cents, rounding half up.
func RefundAmount(amount int64, percentage int) int64 {
	if amount <= 0 || percentage <= 0 {
		return 0
	}
	return (amount*int64(percentage) + 50) / 100
}
