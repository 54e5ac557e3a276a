package domain

import "time"

type ActivityType string

const (
	ActivityTypeBookingRequested ActivityType = "BOOKING_REQUESTED"
	ActivityTypeBookingApproved  ActivityType = "BOOKING_APPROVED"
	ActivityTypeBookingConfirmed ActivityType = "BOOKING_CONFIRMED"
	ActivityTypeBookingRejected  ActivityType = "BOOKING_REJECTED"
	ActivityTypeBookingCancelled ActivityType = "BOOKING_CANCELLED"
)

// ApprovalPoints is awarded to the plot owner for every approved booking.
const ApprovalPoints int32 = 15

type UserActivity struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Points      int32        `json:"points"`
	CreatedAt   time.Time    `json:"created_at"`
}
