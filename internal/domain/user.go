package domain

import "time"

type User struct {
	ID              string    `json:"id"`
	AuthID          string    `json:"-"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	PasswordHash    string    `json:"-"`
	Points          int32     `json:"points"`
	PayoutAccountID *string   `json:"payout_account_id,omitempty"`
	PayoutOnboarded bool      `json:"payout_onboarded"`
	PushToken       *string   `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserSummary is the party projection attached to a booking.
type UserSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	PayoutOnboarded bool   `json:"payout_onboarded"`
}
