package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPlotNotFound         = errors.New("plot not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrPaymentNotFound      = errors.New("payment intent not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrPayoutSetupRequired  = errors.New("plot owner must complete payout setup before approving bookings")
	ErrStatusConflict       = errors.New("booking status was changed by another request")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPayoutAccountMissing = errors.New("no payout account linked")
	ErrBookingAlreadyPaid   = errors.New("booking is already paid")
	ErrPaymentInProgress    = errors.New("a payment for this booking is still being processed")
)

// PermissionError is returned when the caller may not act on a resource.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

func NewPermissionError(msg string) *PermissionError {
	return &PermissionError{Message: msg}
}

// TransitionError reports a status change that is illegal from the current status.
type TransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s booking", e.To.verb(), e.From.withArticle())
}

// ValidationError reports malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
