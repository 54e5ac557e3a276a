package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusApproved  BookingStatus = "APPROVED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// IsValid reports whether s is one of the known booking statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected,
		BookingStatusCancelled, BookingStatusActive, BookingStatusCompleted:
		return true
	}
	return false
}

// IsRequestTarget reports whether s may be requested explicitly by a booking party.
// ACTIVE and COMPLETED are only ever set by the lifecycle jobs.
func (s BookingStatus) IsRequestTarget() bool {
	return s == BookingStatusApproved || s == BookingStatusRejected || s == BookingStatusCancelled
}

// allowedFrom lists, per requested target, the statuses it may be reached from.
var allowedFrom = map[BookingStatus][]BookingStatus{
	BookingStatusApproved:  {BookingStatusPending},
	BookingStatusRejected:  {BookingStatusPending},
	BookingStatusCancelled: {BookingStatusPending, BookingStatusApproved},
	BookingStatusActive:    {BookingStatusApproved},
	BookingStatusCompleted: {BookingStatusActive},
}

// CanTransition checks whether a booking in status from may move to status to.
func CanTransition(from, to BookingStatus) bool {
	for _, s := range allowedFrom[to] {
		if s == from {
			return true
		}
	}
	return false
}

// ValidateTransition returns a *TransitionError when from -> to is not allowed.
func ValidateTransition(from, to BookingStatus) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// verb returns the action wording used in transition errors.
func (s BookingStatus) verb() string {
	switch s {
	case BookingStatusApproved:
		return "approve"
	case BookingStatusRejected:
		return "reject"
	case BookingStatusCancelled:
		return "cancel"
	case BookingStatusActive:
		return "activate"
	case BookingStatusCompleted:
		return "complete"
	}
	return "update"
}

// withArticle renders the status as "an approved" / "a pending".
func (s BookingStatus) withArticle() string {
	word := strings.ToLower(string(s))
	if word != "" && strings.ContainsRune("aeiou", rune(word[0])) {
		return "an " + word
	}
	return "a " + word
}

type Booking struct {
	ID          string        `json:"id"`
	PlotID      string        `json:"plot_id"`
	RenterID    string        `json:"renter_id"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	Status      BookingStatus `json:"status"`
	TotalAmount int64         `json:"total_amount"` // cents
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPaid reports whether the booking has a recorded payment.
func (b *Booking) IsPaid() bool {
	return b.PaidAt != nil
}

// BookingDetail is the booking together with the plot, party and payment
// projections read in a single query.
type BookingDetail struct {
	Booking
	Plot          PlotSummary    `json:"plot"`
	Owner         UserSummary    `json:"owner"`
	Renter        UserSummary    `json:"renter"`
	PaymentIntent *PaymentIntent `json:"payment_intent,omitempty"`
}

// IsParty reports whether userID is the plot owner or the renter.
func (d *BookingDetail) IsParty(userID string) bool {
	return d.Owner.ID == userID || d.Renter.ID == userID
}

// OtherParty returns the party that did not act.
func (d *BookingDetail) OtherParty(actorID string) UserSummary {
	if actorID == d.Owner.ID {
		return d.Renter
	}
	return d.Owner
}

// Party returns the summary for userID, which must be a party of the booking.
func (d *BookingDetail) Party(userID string) UserSummary {
	if userID == d.Owner.ID {
		return d.Owner
	}
	return d.Renter
}

// AuthorizeStatusChange decides whether actorID may request target on d.
func AuthorizeStatusChange(d *BookingDetail, actorID string, target BookingStatus) error {
	switch target {
	case BookingStatusApproved, BookingStatusRejected:
		if actorID != d.Owner.ID {
			return NewPermissionError("only the plot owner can approve or reject bookings")
		}
	case BookingStatusCancelled:
		if !d.IsParty(actorID) {
			return NewPermissionError("you do not have permission to cancel this booking")
		}
	default:
		return ErrInvalidStatus
	}
	return nil
}
