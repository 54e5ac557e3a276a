package domain

import "time"

type PaymentIntentStatus string

const (
	PaymentIntentStatusRequiresPayment PaymentIntentStatus = "REQUIRES_PAYMENT"
	PaymentIntentStatusProcessing      PaymentIntentStatus = "PROCESSING"
	PaymentIntentStatusSucceeded       PaymentIntentStatus = "SUCCEEDED"
	PaymentIntentStatusFailed          PaymentIntentStatus = "FAILED"
	PaymentIntentStatusRefunded        PaymentIntentStatus = "REFUNDED"
)

// Metadata keys written when a refund is recorded.
const (
	MetadataRefundID         = "refundId"
	MetadataRefundAmount     = "refundAmount"
	MetadataRefundPercentage = "refundPercentage"
	MetadataRefundedAt       = "refundedAt"
	MetadataBookingID        = "bookingId"
)

type PaymentIntent struct {
	ID         string              `json:"id"`
	BookingID  string              `json:"booking_id"`
	Amount     int64               `json:"amount"` // cents
	Currency   string              `json:"currency"`
	Status     PaymentIntentStatus `json:"status"`
	ExternalID string              `json:"external_id"`
	Metadata   map[string]any      `json:"metadata"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// MergeMetadata returns a new map holding base overlaid with patch.
// Keys absent from patch are preserved untouched.
func MergeMetadata(base, patch map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// Refund is the gateway-side refund record.
type Refund struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	ChargeRef string `json:"charge_ref"`
}

// RefundInfo summarises a refund issued while cancelling a booking.
type RefundInfo struct {
	RefundID   string `json:"refund_id"`
	Amount     int64  `json:"amount"`
	Percentage int    `json:"percentage"`
}
