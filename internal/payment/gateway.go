package payment

import (
	"context"
	"errors"

	"growshare-backend/internal/domain"
)

// EventChargeComplete is the only webhook event key acted upon.
const EventChargeComplete = "charge.complete"

var ErrUnverifiedEvent = errors.New("payment event could not be verified")

type ChargeStatus string

const (
	ChargePending    ChargeStatus = "pending"
	ChargeSuccessful ChargeStatus = "successful"
	ChargeFailed     ChargeStatus = "failed"
)

type ChargeRequest struct {
	BookingID string
	Amount    int64
	Currency  string
	CardToken string
}

type Charge struct {
	ID            string
	BookingID     string
	Amount        int64
	Currency      string
	Status        ChargeStatus
	FailureReason string
}

// ChargeEvent is a webhook event re-read from the gateway. Charge is nil
// for event kinds that do not carry a charge.
type ChargeEvent struct {
	ID     string
	Key    string
	Charge *Charge
}

// Gateway is the external payment processor.
type Gateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	CreateRefund(ctx context.Context, chargeRef string, amount int64) (*domain.Refund, error)
	RetrieveChargeEvent(ctx context.Context, eventID string) (*ChargeEvent, error)
	PayoutAccountReady(ctx context.Context, recipientID string) (bool, error)
}
