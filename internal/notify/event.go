// Package notify renders booking events into messages and fans them out to
// the configured delivery channels.
package notify

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindBookingRequested Kind = "BOOKING_REQUESTED"
	KindBookingApproved  Kind = "BOOKING_APPROVED"
	KindBookingRejected  Kind = "BOOKING_REJECTED"
	KindBookingCancelled Kind = "BOOKING_CANCELLED"
	KindRefundProcessed  Kind = "REFUND_PROCESSED"
	KindPaymentReceived  Kind = "PAYMENT_RECEIVED"
)

type Recipient struct {
	UserID string
	Name   string
	Email  string
}

// Event carries everything a channel needs; nothing is looked up after the fact.
type Event struct {
	Kind      Kind
	Recipient Recipient
	BookingID string
	PlotTitle string
	// ActorName is whoever triggered the event, e.g. the cancelling party.
	ActorName        string
	Amount           int64
	RefundPercentage int
	Currency         string
}

type Message struct {
	Title      string
	Body       string
	Attributes map[string]string
}

func Render(e Event) Message {
	m := Message{Attributes: map[string]string{
		"kind":      string(e.Kind),
		"bookingId": e.BookingID,
	}}
	switch e.Kind {
	case KindBookingRequested:
		m.Title = "New booking request"
		m.Body = fmt.Sprintf("%s wants to book %s.", e.ActorName, e.PlotTitle)
	case KindBookingApproved:
		m.Title = "Booking approved"
		m.Body = fmt.Sprintf("Your booking for %s has been approved.", e.PlotTitle)
	case KindBookingRejected:
		m.Title = "Booking declined"
		m.Body = fmt.Sprintf("Your booking request for %s was declined.", e.PlotTitle)
	case KindBookingCancelled:
		m.Title = "Booking cancelled"
		m.Body = fmt.Sprintf("%s cancelled the booking for %s.", e.ActorName, e.PlotTitle)
	case KindRefundProcessed:
		m.Title = "Refund processed"
		m.Body = fmt.Sprintf("A %d%% refund of %s for %s is on its way.", e.RefundPercentage, FormatAmount(e.Amount, e.Currency), e.PlotTitle)
		m.Attributes["refundAmount"] = fmt.Sprint(e.Amount)
		m.Attributes["refundPercentage"] = fmt.Sprint(e.RefundPercentage)
	case KindPaymentReceived:
		m.Title = "Payment received"
		m.Body = fmt.Sprintf("Payment of %s for %s has been received.", FormatAmount(e.Amount, e.Currency), e.PlotTitle)
	default:
		m.Title = "Booking update"
		m.Body = fmt.Sprintf("There is an update on your booking for %s.", e.PlotTitle)
	}
	return m
}

// FormatAmount renders minor units as a decimal amount with the currency code.
func FormatAmount(cents int64, currency string) string {
	if currency == "" {
		currency = "usd"
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, strings.ToUpper(currency))
}
